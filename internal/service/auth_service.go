package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/rumman2004/Portfolio-v2-sub001/internal/auth"
	"github.com/rumman2004/Portfolio-v2-sub001/internal/repo"
)

var (
	// ErrInvalidCredentials indica falha na autenticação.
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	// ErrAccountDisabled indica conta desativada.
	ErrAccountDisabled = errors.New("conta desativada")
	// ErrRefreshInvalid indica refresh token inválido ou expirado.
	ErrRefreshInvalid = errors.New("refresh token inválido")
)

type adminRepository interface {
	GetAdminByEmail(ctx context.Context, email string) (repo.AdminUsuario, error)
	GetAdminByID(ctx context.Context, id uuid.UUID) (repo.AdminUsuario, error)
}

type redisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// AuthService concentra regras de autenticação e sessões do administrador.
type AuthService struct {
	repo       adminRepository
	redis      redisCommander
	jwt        *auth.JWTManager
	refreshTTL time.Duration
}

// NewAuthService cria novo serviço.
func NewAuthService(r adminRepository, redisClient redisCommander, jwtMgr *auth.JWTManager, refreshTTL time.Duration) *AuthService {
	return &AuthService{repo: r, redis: redisClient, jwt: jwtMgr, refreshTTL: refreshTTL}
}

// JWT expõe gerenciador de JWT (útil em middlewares).
func (s *AuthService) JWT() *auth.JWTManager {
	return s.jwt
}

// LoginResult representa retorno padrão de autenticações.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	Subject      uuid.UUID
	Nome         string
	Email        string
}

// Login autentica o administrador e abre uma sessão de refresh no redis.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	admin, err := s.repo.GetAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !admin.Ativo {
		return nil, ErrAccountDisabled
	}

	ok, err := auth.Verify(password, admin.SenhaHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	return s.openSession(ctx, admin)
}

// Refresh troca um refresh token válido por novos tokens (rotação).
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (*LoginResult, error) {
	hash := auth.HashRefreshToken(rawRefresh)
	key := auth.RefreshRedisKey(auth.AudienceAdmin, hash)

	subjectStr, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}

	subject, err := uuid.Parse(subjectStr)
	if err != nil {
		return nil, ErrRefreshInvalid
	}

	admin, err := s.repo.GetAdminByID(ctx, subject)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}
	if !admin.Ativo {
		return nil, ErrAccountDisabled
	}

	// Rotação: o token antigo deixa de valer antes do novo ser emitido.
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		log.Warn().Err(err).Msg("falha ao revogar refresh antigo")
	}

	return s.openSession(ctx, admin)
}

// Logout revoga o refresh token atual.
func (s *AuthService) Logout(ctx context.Context, rawRefresh string) error {
	if strings.TrimSpace(rawRefresh) == "" {
		return nil
	}
	hash := auth.HashRefreshToken(rawRefresh)
	return s.redis.Del(ctx, auth.RefreshRedisKey(auth.AudienceAdmin, hash)).Err()
}

func (s *AuthService) openSession(ctx context.Context, admin repo.AdminUsuario) (*LoginResult, error) {
	access, _, err := s.jwt.GenerateAccessToken(admin.ID.String(), auth.AudienceAdmin, []string{"ADMIN"})
	if err != nil {
		return nil, err
	}

	rawRefresh, hashed, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	key := auth.RefreshRedisKey(auth.AudienceAdmin, hashed)
	if err := s.redis.Set(ctx, key, admin.ID.String(), s.refreshTTL).Err(); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: rawRefresh,
		Subject:      admin.ID,
		Nome:         admin.Nome,
		Email:        admin.Email,
	}, nil
}
