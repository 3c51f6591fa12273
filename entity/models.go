package entity

// Models lists every table in migration order.
func Models() []any {
	return []any{&Account{}, &Chat{}, &ChatMembership{}, &Message{}}
}
