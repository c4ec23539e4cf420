package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/greenmomguide/review-backend/internal/app/model"
	"github.com/greenmomguide/review-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "review-test-secret"

func TestAuthService_VerifyToken(t *testing.T) {
	f := setupFixture(t)
	member := f.newMember(t, 1)

	revoked := map[string]bool{}
	svc := NewAuthService(f.memberRepo, testJWTSecret, func(_ context.Context, token string) (bool, error) {
		return revoked[token], nil
	})

	token, err := util.GenerateToken(member.ID, member.Email, member.Nickname, testJWTSecret, time.Hour)
	require.NoError(t, err)

	t.Run("Valid token", func(t *testing.T) {
		identity, err := svc.VerifyToken(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, member.ID, identity.MemberID)
		assert.Equal(t, member.Email, identity.Email)
		assert.Equal(t, member.Nickname, identity.Nickname)
	})

	t.Run("Garbage token", func(t *testing.T) {
		_, err := svc.VerifyToken(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("Expired token", func(t *testing.T) {
		expired, err := util.GenerateToken(member.ID, member.Email, member.Nickname, testJWTSecret, -time.Minute)
		require.NoError(t, err)

		_, err = svc.VerifyToken(context.Background(), expired)
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("Incomplete claims", func(t *testing.T) {
		partial, err := util.GenerateToken(member.ID, member.Email, "", testJWTSecret, time.Hour)
		require.NoError(t, err)

		_, err = svc.VerifyToken(context.Background(), partial)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("Revoked token", func(t *testing.T) {
		revoked[token] = true
		defer delete(revoked, token)

		_, err := svc.VerifyToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestAuthService_VerifyToken_RevocationStoreDown(t *testing.T) {
	f := setupFixture(t)
	member := f.newMember(t, 1)
	svc := NewAuthService(f.memberRepo, testJWTSecret, func(context.Context, string) (bool, error) {
		return false, errors.New("connection refused")
	})

	token, err := util.GenerateToken(member.ID, member.Email, member.Nickname, testJWTSecret, time.Hour)
	require.NoError(t, err)

	_, err = svc.VerifyToken(context.Background(), token)
	assert.NoError(t, err)
}

func TestAuthService_ResolveMember(t *testing.T) {
	f := setupFixture(t)
	member := f.newMember(t, 1)
	svc := NewAuthService(f.memberRepo, testJWTSecret, nil)

	resolved, err := svc.ResolveMember(model.MemberIdentity{MemberID: member.ID, Email: member.Email, Nickname: member.Nickname})
	require.NoError(t, err)
	assert.Equal(t, member.ID, resolved.ID)

	_, err = svc.ResolveMember(model.MemberIdentity{MemberID: member.ID, Email: member.Email, Nickname: "renamed"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.ResolveMember(model.MemberIdentity{MemberID: member.ID})
	assert.ErrorIs(t, err, ErrUnauthorized)
}
