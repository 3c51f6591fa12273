package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pony-express/dto/req"
	"pony-express/entity"
	"pony-express/enum"
	"pony-express/exception"
)

func TestCreateChat(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	chatty := f.register(t, "chatty")

	t.Run("owner becomes the only member", func(t *testing.T) {
		req := require.New(t)
		chat := f.createChat(t, "general", chatty.ID)
		req.Equal(uint(1), chat.ID)
		req.Equal(chatty.ID, chat.OwnerID)

		members, err := f.chats.GetMembers(ctx, chat.ID)
		req.NoError(err)
		req.Len(members, 1)
		req.Equal(chatty.ID, members[0].ID)
	})

	t.Run("duplicate name", func(t *testing.T) {
		_, err := f.chats.CreateChat(ctx, &req.CreateChatRequest{Name: "general", OwnerID: chatty.ID})
		require.Equal(t, "Duplicate value: chat with name=general already exists", err.Error())
		require.True(t, exception.Is(err, enum.ErrorDuplicateEntityValue))
	})

	t.Run("names are case sensitive", func(t *testing.T) {
		chat := f.createChat(t, "General", chatty.ID)
		require.Equal(t, uint(2), chat.ID)
	})

	t.Run("missing owner creates nothing", func(t *testing.T) {
		_, err := f.chats.CreateChat(ctx, &req.CreateChatRequest{Name: "ghost town", OwnerID: 100})
		require.ErrorIs(t, err, exception.NotFound("account", 100))

		chats, err := f.chats.GetAllChats(ctx)
		require.NoError(t, err)
		require.Len(t, chats, 2)

		var count int64
		require.NoError(t, f.db.Model(&entity.ChatMembership{}).Where("account_id = ?", 100).Count(&count).Error)
		require.Zero(t, count)
	})
}

func TestGetChat(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	chatty := f.register(t, "chatty")
	f.createChat(t, "general", chatty.ID)

	chat, err := f.chats.GetChatByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "general", chat.Name)

	_, err = f.chats.GetChatByID(ctx, 100)
	require.Equal(t, "Unable to find chat with id=100", err.Error())

	_, err = f.chats.GetMembers(ctx, 100)
	require.True(t, exception.Is(err, enum.ErrorEntityNotFound))
}

func TestUpdateChat(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	owner := f.register(t, "owner")
	member := f.register(t, "member")
	outsider := f.register(t, "outsider")
	chat := f.createChat(t, "general", owner.ID)
	f.createChat(t, "random", owner.ID)
	f.join(t, chat.ID, member.ID)

	t.Run("missing chat", func(t *testing.T) {
		_, err := f.chats.UpdateChat(ctx, 100, &req.UpdateChatRequest{Name: ptr("x")})
		require.ErrorIs(t, err, exception.NotFound("chat", 100))
	})

	t.Run("owner must be a member", func(t *testing.T) {
		_, err := f.chats.UpdateChat(ctx, chat.ID, &req.UpdateChatRequest{OwnerID: ptr(outsider.ID)})
		require.Equal(t, "Account with id=3 must be a member of chat with id=1", err.Error())
	})

	t.Run("owner must exist", func(t *testing.T) {
		_, err := f.chats.UpdateChat(ctx, chat.ID, &req.UpdateChatRequest{OwnerID: ptr(uint(100))})
		require.ErrorIs(t, err, exception.MembershipRequired(100, chat.ID))
	})

	t.Run("name taken by another chat", func(t *testing.T) {
		_, err := f.chats.UpdateChat(ctx, chat.ID, &req.UpdateChatRequest{Name: ptr("random")})
		require.ErrorIs(t, err, exception.DuplicateEntity("random"))
	})

	t.Run("failed name check leaves owner unchanged", func(t *testing.T) {
		_, err := f.chats.UpdateChat(ctx, chat.ID, &req.UpdateChatRequest{OwnerID: ptr(member.ID), Name: ptr("random")})
		require.Error(t, err)

		stored, err := f.chats.GetChatByID(ctx, chat.ID)
		require.NoError(t, err)
		require.Equal(t, owner.ID, stored.OwnerID)
		require.Equal(t, "general", stored.Name)
	})

	t.Run("rename and transfer together", func(t *testing.T) {
		updated, err := f.chats.UpdateChat(ctx, chat.ID, &req.UpdateChatRequest{OwnerID: ptr(member.ID), Name: ptr("lounge")})
		require.NoError(t, err)
		require.Equal(t, member.ID, updated.OwnerID)
		require.Equal(t, "lounge", updated.Name)

		stored, err := f.chats.GetChatByID(ctx, chat.ID)
		require.NoError(t, err)
		require.Equal(t, member.ID, stored.OwnerID)
		require.Equal(t, "lounge", stored.Name)
	})

	t.Run("keeping its own name is allowed", func(t *testing.T) {
		updated, err := f.chats.UpdateChat(ctx, chat.ID, &req.UpdateChatRequest{Name: ptr("lounge")})
		require.NoError(t, err)
		require.Equal(t, "lounge", updated.Name)
	})

	t.Run("former owner can now be removed", func(t *testing.T) {
		require.NoError(t, f.chats.RemoveMembership(ctx, chat.ID, owner.ID))
	})
}

func TestMemberships(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	owner := f.register(t, "owner")
	member := f.register(t, "member")
	outsider := f.register(t, "outsider")
	chat := f.createChat(t, "general", owner.ID)

	t.Run("add requires chat and account", func(t *testing.T) {
		_, err := f.chats.AddMembership(ctx, 100, member.ID)
		require.ErrorIs(t, err, exception.NotFound("chat", 100))

		_, err = f.chats.AddMembership(ctx, chat.ID, 100)
		require.ErrorIs(t, err, exception.NotFound("account", 100))
	})

	t.Run("add and find", func(t *testing.T) {
		membership, err := f.chats.FindMembership(ctx, chat.ID, member.ID)
		require.NoError(t, err)
		require.Nil(t, membership)

		membership, err = f.chats.AddMembership(ctx, chat.ID, member.ID)
		require.NoError(t, err)
		require.Equal(t, member.ID, membership.AccountID)
		require.Equal(t, chat.ID, membership.ChatID)

		found, err := f.chats.FindMembership(ctx, chat.ID, member.ID)
		require.NoError(t, err)
		require.NotNil(t, found)

		isMember, err := f.chats.IsMember(ctx, chat.ID, member.ID)
		require.NoError(t, err)
		require.True(t, isMember)
	})

	t.Run("owner can never be removed", func(t *testing.T) {
		err := f.chats.RemoveMembership(ctx, chat.ID, owner.ID)
		require.ErrorIs(t, err, exception.OwnerRemoval())

		isMember, err := f.chats.IsMember(ctx, chat.ID, owner.ID)
		require.NoError(t, err)
		require.True(t, isMember)
	})

	t.Run("removing a non member", func(t *testing.T) {
		err := f.chats.RemoveMembership(ctx, chat.ID, outsider.ID)
		require.ErrorIs(t, err, exception.MembershipRequired(outsider.ID, chat.ID))

		err = f.chats.RemoveMembership(ctx, chat.ID, 100)
		require.ErrorIs(t, err, exception.NotFound("account", 100))

		err = f.chats.RemoveMembership(ctx, 100, member.ID)
		require.ErrorIs(t, err, exception.NotFound("chat", 100))
	})

	t.Run("removing a member keeps their messages without author", func(t *testing.T) {
		f.post(t, chat.ID, member.ID, "one")
		f.post(t, chat.ID, owner.ID, "two")
		f.post(t, chat.ID, member.ID, "three")

		before, err := f.messages.GetMessages(ctx, chat.ID)
		require.NoError(t, err)

		require.NoError(t, f.chats.RemoveMembership(ctx, chat.ID, member.ID))

		after, err := f.messages.GetMessages(ctx, chat.ID)
		require.NoError(t, err)
		require.Len(t, after, len(before))
		require.Nil(t, after[0].AccountID)
		require.Equal(t, owner.ID, *after[1].AccountID)
		require.Nil(t, after[2].AccountID)

		members, err := f.chats.GetMembers(ctx, chat.ID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		require.Equal(t, owner.ID, members[0].ID)
	})
}

func TestDeleteChatCascades(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	owner := f.register(t, "owner")
	member := f.register(t, "member")
	chat := f.createChat(t, "general", owner.ID)
	other := f.createChat(t, "random", owner.ID)
	f.join(t, chat.ID, member.ID)
	f.post(t, chat.ID, member.ID, "hello")
	f.post(t, other.ID, owner.ID, "elsewhere")

	require.NoError(t, f.chats.DeleteChat(ctx, chat.ID))

	_, err := f.chats.GetChatByID(ctx, chat.ID)
	require.ErrorIs(t, err, exception.NotFound("chat", chat.ID))

	var count int64
	require.NoError(t, f.db.Model(&entity.Message{}).Where("chat_id = ?", chat.ID).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, f.db.Model(&entity.ChatMembership{}).Where("chat_id = ?", chat.ID).Count(&count).Error)
	require.Zero(t, count)

	messages, err := f.messages.GetMessages(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	_, err = f.accounts.GetAccountByID(ctx, owner.ID)
	require.NoError(t, err)

	err = f.chats.DeleteChat(ctx, chat.ID)
	require.True(t, exception.Is(err, enum.ErrorEntityNotFound))
}

func TestRevocationsFollowCommittedChanges(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	chatty := f.register(t, "chatty")
	yappy := f.register(t, "yappy")
	quiet := f.register(t, "quiet")
	chat := f.createChat(t, "nerds", chatty.ID)
	f.join(t, chat.ID, yappy.ID)
	f.join(t, chat.ID, quiet.ID)

	// refused changes revoke nothing
	require.Error(t, f.chats.RemoveMembership(ctx, chat.ID, chatty.ID))
	require.Error(t, f.accounts.DeleteAccount(ctx, chatty.ID))
	require.Empty(t, f.revoked.revoked)

	require.NoError(t, f.chats.RemoveMembership(ctx, chat.ID, yappy.ID))
	require.NoError(t, f.accounts.DeleteAccount(ctx, quiet.ID))
	require.NoError(t, f.chats.DeleteChat(ctx, chat.ID))

	require.Equal(t, []string{
		fmt.Sprintf("member:%d:%d", chat.ID, yappy.ID),
		fmt.Sprintf("account:%d", quiet.ID),
		fmt.Sprintf("chat:%d", chat.ID),
	}, f.revoked.revoked)
}
