package router

import (
	"time"

	"github.com/njrtechbr/caixa-koerner/internal/config"
	"github.com/njrtechbr/caixa-koerner/internal/handler"
	"github.com/njrtechbr/caixa-koerner/internal/mfa"
	"github.com/njrtechbr/caixa-koerner/internal/middleware"
	"github.com/njrtechbr/caixa-koerner/internal/model"
	"github.com/njrtechbr/caixa-koerner/internal/repository"
	"github.com/njrtechbr/caixa-koerner/internal/service"
	"github.com/njrtechbr/caixa-koerner/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, cipher *mfa.Cipher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	caixaRepo := repository.NewCaixaRepository(db)
	conferenciaRepo := repository.NewConferenciaRepository(db)
	formaRepo := repository.NewFormaPagamentoRepository(db)
	movimentacaoRepo := repository.NewMovimentacaoRepository(db)
	configRepo := repository.NewConfiguracaoRepository(db)
	auditoriaRepo := repository.NewAuditoriaRepository(db)

	// Worker dispatcher — injected into services that enqueue audit events
	dispatcher := worker.NewDispatcher(rdb, auditoriaRepo)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	mfaSvc := service.NewMFAService(usuarioRepo, cipher, cfg.MFAIssuer, dispatcher)
	caixaSvc := service.NewCaixaService(caixaRepo, formaRepo, mfaSvc, dispatcher)
	conferenciaSvc := service.NewConferenciaService(caixaRepo, configRepo, mfaSvc, dispatcher)
	validacaoSvc := service.NewValidacaoService(caixaRepo, conferenciaRepo, configRepo, mfaSvc, dispatcher)
	adminSvc := service.NewAdminService(configRepo, formaRepo, dispatcher)
	movimentacaoSvc := service.NewMovimentacaoService(movimentacaoRepo, caixaRepo, mfaSvc, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	mfaH := handler.NewMFAHandler(mfaSvc)
	caixaH := handler.NewCaixaHandler(caixaSvc)
	conferenciaH := handler.NewConferenciaHandler(conferenciaSvc)
	validacaoH := handler.NewValidacaoHandler(validacaoSvc, cfg.PDFStoragePath)
	configH := handler.NewConfiguracoesHandler(adminSvc)
	formasH := handler.NewFormasPagamentoHandler(adminSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	auditoriaH := handler.NewAuditoriaHandler(auditoriaRepo)
	movimentacaoH := handler.NewMovimentacaoHandler(movimentacaoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		operadores := middleware.RequireCargo(model.CargoOperadorCaixa, model.CargoSupervisorCaixa, model.CargoSupervisorConferencia, model.CargoAdmin)
		supervisores := middleware.RequireCargo(model.CargoSupervisorCaixa, model.CargoAdmin)
		conferentes := middleware.RequireCargo(model.CargoSupervisorConferencia, model.CargoAdmin)
		admins := middleware.RequireCargo(model.CargoAdmin)

		// MFA enrollment — any authenticated user manages their own second factor
		mfaGrp := v1.Group("/mfa")
		{
			mfaGrp.POST("/configurar", mfaH.Configurar)
			mfaGrp.POST("/ativar", mfaH.Ativar)
		}

		caixa := v1.Group("/caixa")
		{
			caixa.POST("/abrir", operadores, caixaH.Abrir)
			caixa.POST("/transacao", operadores, caixaH.SalvarTransacao)
			caixa.POST("/fechar", operadores, caixaH.Fechar)
			caixa.GET("/aberto", operadores, caixaH.BuscarAberto)
			caixa.GET("/:id", operadores, caixaH.Obter)
			caixa.GET("/:id/transacoes", operadores, caixaH.ListarTransacoes)
			caixa.GET("", supervisores, caixaH.Listar)
		}

		movimentacao := v1.Group("/movimentacao")
		{
			movimentacao.POST("", operadores, movimentacaoH.Solicitar)
			movimentacao.GET("/pendentes", supervisores, movimentacaoH.ListarPendentes)
			movimentacao.POST("/aprovar", supervisores, movimentacaoH.Decidir)
		}

		conferencia := v1.Group("/conferencia", supervisores)
		{
			conferencia.GET("/pendentes", conferenciaH.ListarPendentes)
			conferencia.POST("/caixa", conferenciaH.Conferir)
		}

		validacao := v1.Group("/validacao", conferentes)
		{
			validacao.GET("/:data/painel", validacaoH.Painel)
			validacao.POST("/finalizar", validacaoH.FinalizarDia)
			validacao.GET("/:data/relatorio", validacaoH.Relatorio)
		}

		// Catalog reads are open to every authenticated cargo; writes are admin only
		v1.GET("/formas-pagamento", operadores, formasH.Listar)
		v1.PATCH("/formas-pagamento/:id", admins, formasH.Atualizar)

		admin := v1.Group("/admin", admins)
		{
			admin.GET("/configuracoes", configH.Listar)
			admin.PUT("/configuracoes", configH.Atualizar)
			admin.POST("/usuarios", usuariosH.Criar)
			admin.GET("/usuarios", usuariosH.Listar)
			admin.DELETE("/usuarios/:id", usuariosH.Desativar)
			admin.GET("/auditoria", auditoriaH.Listar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
