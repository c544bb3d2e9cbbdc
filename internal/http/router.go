package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rumman2004/Portfolio-v2-sub001/internal/config"
	httpmiddleware "github.com/rumman2004/Portfolio-v2-sub001/internal/http/middleware"
	"github.com/rumman2004/Portfolio-v2-sub001/internal/mailer"
	"github.com/rumman2004/Portfolio-v2-sub001/internal/media"
	"github.com/rumman2004/Portfolio-v2-sub001/internal/perfil"
	"github.com/rumman2004/Portfolio-v2-sub001/internal/service"
	"github.com/rumman2004/Portfolio-v2-sub001/internal/storage"
)

// Handler concentra dependências dos endpoints do portfólio.
type Handler struct {
	cfg            *config.Config
	pool           *pgxpool.Pool
	redis          *redis.Client
	authService    *service.AuthService
	uploader       *media.Uploader
	cleaner        *media.Cleaner
	mail           mailer.Mailer
	log            zerolog.Logger
	publicLimiter  *httpmiddleware.RateLimiter
	authLimiter    *httpmiddleware.RateLimiter
	contactLimiter *httpmiddleware.RateLimiter
}

// NewRouter devolve roteador configurado.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client, authService *service.AuthService) (http.Handler, error) {
	var store storage.MediaStore = storage.NoopStore{}
	switch cfg.Storage.Provider {
	case "", "noop":
		// mantém provedor padrão
	case "cloudinary":
		var err error
		store, err = storage.NewCloudinaryStore(storage.CloudinaryConfig{
			Endpoint:  cfg.Storage.Endpoint,
			CloudName: cfg.Storage.CloudName,
			APIKey:    cfg.Storage.APIKey,
			APISecret: cfg.Storage.APISecret,
		})
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
	default:
		return nil, fmt.Errorf("storage: provedor %s não suportado", cfg.Storage.Provider)
	}

	uploader := media.NewUploader(store, cfg.Storage.Folder, cfg.Storage.UploadTimeout)
	resolver := media.NewResolver(store, cfg.Storage.DeleteTimeout)
	cleaner := media.NewCleaner(resolver, log.With().Str("component", "media").Logger())

	var mail mailer.Mailer
	if m := mailer.NewHTTPMailer(cfg.Mail.Endpoint, cfg.Mail.APIKey, cfg.Mail.From, cfg.Mail.To); m != nil {
		mail = m
	}

	perfilRepo := perfil.NewRepository(pool)
	perfilService := perfil.NewService(perfilRepo, uploader, cleaner)
	perfilHandler := perfil.NewHandler(perfilService)

	h := &Handler{
		cfg:            cfg,
		pool:           pool,
		redis:          redisClient,
		authService:    authService,
		uploader:       uploader,
		cleaner:        cleaner,
		mail:           mail,
		log:            log.With().Str("component", "http").Logger(),
		publicLimiter:  httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
		authLimiter:    httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst),
		contactLimiter: httpmiddleware.NewRateLimiter(1, 3),
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(h.publicLimiter))

		public.Get("/health", h.Health)

		perfil.MountPublic(public, perfilHandler)
		public.Get("/projetos", h.ListProjetos)
		public.Get("/projetos/{id}", h.GetProjeto)
		public.Get("/habilidades", h.ListHabilidades)
		public.Get("/certificados", h.ListCertificados)
		public.Get("/experiencias", h.ListExperiencias)
		public.Get("/social", h.ListRedesSociais)

		public.With(httpmiddleware.IPRateLimit(h.contactLimiter)).
			Post("/mensagens", h.CreateMensagem)

		public.Post("/auth/login", h.Login)
		public.Post("/auth/refresh", h.Refresh)
		public.Post("/auth/logout", h.Logout)
	})

	r.Group(func(admin chi.Router) {
		admin.Use(httpmiddleware.Auth(authService.JWT()))
		admin.Use(httpmiddleware.RequireAdmin)
		admin.Use(httpmiddleware.UserRateLimit(h.authLimiter))

		perfil.MountAdmin(admin, perfilHandler)

		admin.Post("/projetos", h.CreateProjeto)
		admin.Put("/projetos/{id}", h.UpdateProjeto)
		admin.Delete("/projetos/{id}", h.DeleteProjeto)
		admin.Delete("/projetos/{id}/imagem", h.DeleteProjetoImagem)

		admin.Post("/habilidades", h.CreateHabilidade)
		admin.Put("/habilidades/{id}", h.UpdateHabilidade)
		admin.Delete("/habilidades/{id}", h.DeleteHabilidade)

		admin.Post("/certificados", h.CreateCertificado)
		admin.Put("/certificados/{id}", h.UpdateCertificado)
		admin.Delete("/certificados/{id}", h.DeleteCertificado)

		admin.Post("/experiencias", h.CreateExperiencia)
		admin.Put("/experiencias/{id}", h.UpdateExperiencia)
		admin.Delete("/experiencias/{id}", h.DeleteExperiencia)

		admin.Post("/social", h.CreateRedeSocial)
		admin.Put("/social/{id}", h.UpdateRedeSocial)
		admin.Delete("/social/{id}", h.DeleteRedeSocial)

		admin.Get("/mensagens", h.ListMensagens)
		admin.Post("/mensagens/{id}/lida", h.MarkMensagemLida)
		admin.Delete("/mensagens/{id}", h.DeleteMensagem)
	})

	return r, nil
}

// Health responde verificação simples de vida.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
