package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rumman2004/Portfolio-v2-sub001/internal/auth"
	"github.com/rumman2004/Portfolio-v2-sub001/internal/repo"
)

type stubAdminRepo struct {
	admin repo.AdminUsuario
}

func (s *stubAdminRepo) GetAdminByEmail(ctx context.Context, email string) (repo.AdminUsuario, error) {
	if strings.EqualFold(email, s.admin.Email) {
		return s.admin, nil
	}
	return repo.AdminUsuario{}, repo.ErrNotFound
}

func (s *stubAdminRepo) GetAdminByID(ctx context.Context, id uuid.UUID) (repo.AdminUsuario, error) {
	if id == s.admin.ID {
		return s.admin, nil
	}
	return repo.AdminUsuario{}, repo.ErrNotFound
}

type stubRedis struct {
	store map[string]string
}

func (s *stubRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if s.store == nil {
		s.store = make(map[string]string)
	}
	s.store[key] = fmt.Sprint(value)
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (s *stubRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	val, ok := s.store[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(val)
	return cmd
}

func (s *stubRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, ok := s.store[key]; ok {
			delete(s.store, key)
			removed++
		}
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(removed)
	return cmd
}

func newTestAuthService(t *testing.T, password string, ativo bool) (*AuthService, *stubAdminRepo, *stubRedis) {
	t.Helper()

	hash, err := auth.Hash(password)
	if err != nil {
		t.Fatalf("hash da senha: %v", err)
	}

	repoStub := &stubAdminRepo{admin: repo.AdminUsuario{
		ID:        uuid.New(),
		Nome:      "Rumman",
		Email:     "admin@example.com",
		SenhaHash: hash,
		Ativo:     ativo,
	}}
	redisStub := &stubRedis{}

	jwtMgr := auth.NewJWTManager(strings.Repeat("a", 32), time.Minute)
	return NewAuthService(repoStub, redisStub, jwtMgr, time.Hour), repoStub, redisStub
}

func TestLoginSuccess(t *testing.T) {
	svc, repoStub, redisStub := newTestAuthService(t, "SenhaForte123!", true)

	result, err := svc.Login(context.Background(), "admin@example.com", "SenhaForte123!")
	if err != nil {
		t.Fatalf("login falhou: %v", err)
	}

	if result.Subject != repoStub.admin.ID {
		t.Fatalf("subject incorreto: %v", result.Subject)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("tokens não emitidos")
	}

	claims, err := svc.JWT().ParseAndValidate(result.AccessToken)
	if err != nil {
		t.Fatalf("access token inválido: %v", err)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "ADMIN" {
		t.Fatalf("roles incorretas: %v", claims.Roles)
	}

	key := auth.RefreshRedisKey(auth.AudienceAdmin, auth.HashRefreshToken(result.RefreshToken))
	if redisStub.store[key] != repoStub.admin.ID.String() {
		t.Fatal("sessão de refresh não registrada no redis")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t, "SenhaForte123!", true)

	if _, err := svc.Login(context.Background(), "admin@example.com", "errada"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("esperava ErrInvalidCredentials, obteve %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newTestAuthService(t, "SenhaForte123!", true)

	if _, err := svc.Login(context.Background(), "outro@example.com", "SenhaForte123!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("esperava ErrInvalidCredentials, obteve %v", err)
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	svc, _, _ := newTestAuthService(t, "SenhaForte123!", false)

	if _, err := svc.Login(context.Background(), "admin@example.com", "SenhaForte123!"); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("esperava ErrAccountDisabled, obteve %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, redisStub := newTestAuthService(t, "SenhaForte123!", true)

	first, err := svc.Login(context.Background(), "admin@example.com", "SenhaForte123!")
	if err != nil {
		t.Fatalf("login falhou: %v", err)
	}

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("refresh falhou: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatal("refresh deveria emitir token novo")
	}

	oldKey := auth.RefreshRedisKey(auth.AudienceAdmin, auth.HashRefreshToken(first.RefreshToken))
	if _, ok := redisStub.store[oldKey]; ok {
		t.Fatal("token antigo deveria ter sido revogado")
	}

	// Reutilizar o token antigo falha.
	if _, err := svc.Refresh(context.Background(), first.RefreshToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("esperava ErrRefreshInvalid, obteve %v", err)
	}
}

func TestRefreshUnknownToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t, "SenhaForte123!", true)

	if _, err := svc.Refresh(context.Background(), "token-desconhecido"); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("esperava ErrRefreshInvalid, obteve %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, redisStub := newTestAuthService(t, "SenhaForte123!", true)

	result, err := svc.Login(context.Background(), "admin@example.com", "SenhaForte123!")
	if err != nil {
		t.Fatalf("login falhou: %v", err)
	}

	if err := svc.Logout(context.Background(), result.RefreshToken); err != nil {
		t.Fatalf("logout falhou: %v", err)
	}
	if len(redisStub.store) != 0 {
		t.Fatalf("sessão deveria ter sido revogada: %v", redisStub.store)
	}
}
