package commands

import (
	"context"

	"github.com/google/uuid"

	"fitbook/internal/domain/member"
	"fitbook/internal/pkg/errs"
	"fitbook/internal/pkg/jwt"
	"fitbook/internal/pkg/password"
	"fitbook/internal/usecase/queries"
)

var (
	ErrInvalidCredentials = errs.New("invalid credentials")
	ErrMemberInactive     = errs.New("member inactive")
	ErrTokenGeneration    = errs.New("token generation failed")
	ErrTokenValidation    = errs.New("token validation failed")
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type LoginResult struct {
	MemberID  uuid.UUID
	BranchID  uuid.UUID
	TokenPair *TokenPair
}

type AuthCommands interface {
	Login(ctx context.Context, email, plainPassword string) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authCommandsImpl struct {
	readStore  queries.MemberReadStore
	jwtService *jwt.Service
}

func NewAuthCommands(readStore queries.MemberReadStore, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		readStore:  readStore,
		jwtService: jwtService,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	view, err := a.validateMember(ctx, email, plainPassword)
	if err != nil {
		return nil, err
	}

	role, err := member.NewRole(view.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCredentials)
	}

	pair, err := a.issueTokens(view.ID, view.BranchID, role)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		MemberID:  view.ID,
		BranchID:  view.BranchID,
		TokenPair: pair,
	}, nil
}

func (a *authCommandsImpl) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrTokenValidation
	}

	role, err := member.NewRole(claims.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}

	// The member must still exist and be active at refresh time.
	view, err := a.readStore.FindByID(ctx, claims.MemberID)
	if err != nil || view == nil {
		return nil, ErrMemberNotFound
	}
	if !view.IsActive {
		return nil, ErrMemberInactive
	}

	return a.issueTokens(claims.MemberID, claims.BranchID, role)
}

func (a *authCommandsImpl) issueTokens(memberID, branchID uuid.UUID, role member.Role) (*TokenPair, error) {
	accessToken, err := a.jwtService.GenerateAccessToken(memberID, branchID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	refreshToken, err := a.jwtService.GenerateRefreshToken(memberID, branchID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (a *authCommandsImpl) validateMember(ctx context.Context, email, plainPassword string) (*queries.AuthorizedMemberView, error) {
	view, hashed, err := a.readStore.FindByEmail(ctx, email)
	if err != nil {
		// Same error as a password mismatch to prevent member enumeration.
		return nil, ErrInvalidCredentials
	}
	if view == nil {
		return nil, ErrMemberNotFound
	}
	if !view.IsActive {
		return nil, ErrMemberInactive
	}

	if err := password.ComparePassword(hashed, plainPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	return view, nil
}
