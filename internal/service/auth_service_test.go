package service

import (
	"context"
	"testing"
	"time"

	"payment-orchestrator/internal/core/ports/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type authTestDeps struct {
	svc      *AuthServiceImpl
	hashSvc  *mocks.MockHashService
	tokenSvc *mocks.MockTokenService
	ctrl     *gomock.Controller
}

func setupAuthService(t *testing.T, operatorID, operatorPasswordHash string) *authTestDeps {
	ctrl := gomock.NewController(t)
	d := &authTestDeps{
		hashSvc:  mocks.NewMockHashService(ctrl),
		tokenSvc: mocks.NewMockTokenService(ctrl),
		ctrl:     ctrl,
	}
	d.svc = NewAuthService(operatorID, operatorPasswordHash, d.hashSvc, d.tokenSvc)
	return d
}

func TestAuthService_Login_Success(t *testing.T) {
	d := setupAuthService(t, "operator-1", "hashed-password")
	defer d.ctrl.Finish()

	ctx := context.Background()
	expiry := time.Now().Add(time.Hour)
	d.hashSvc.EXPECT().Verify("correct-password", "hashed-password").Return(true, nil)
	d.tokenSvc.EXPECT().Generate("operator-1").Return("jwt-token", expiry, nil)

	token, exp, err := d.svc.Login(ctx, "operator-1", "correct-password")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
	assert.Equal(t, expiry, exp)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	d := setupAuthService(t, "operator-1", "hashed-password")
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.hashSvc.EXPECT().Verify("wrong-password", "hashed-password").Return(false, nil)

	_, _, err := d.svc.Login(ctx, "operator-1", "wrong-password")
	assertAppErrorCode(t, err, "AUTH_004")
}

func TestAuthService_Login_UnknownOperator(t *testing.T) {
	d := setupAuthService(t, "operator-1", "hashed-password")
	defer d.ctrl.Finish()

	ctx := context.Background()
	_, _, err := d.svc.Login(ctx, "someone-else", "whatever")
	assertAppErrorCode(t, err, "AUTH_004")
}

func TestAuthService_Login_NotConfigured(t *testing.T) {
	d := setupAuthService(t, "", "")
	defer d.ctrl.Finish()

	ctx := context.Background()
	_, _, err := d.svc.Login(ctx, "operator-1", "whatever")
	require.Error(t, err)
}
