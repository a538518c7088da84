package bootstrap

import (
	"time"

	httpapi "github.com/Daniel-Kats256/simulations/internal/api/http"
	"github.com/Daniel-Kats256/simulations/internal/api/http/middleware"
	"github.com/Daniel-Kats256/simulations/internal/auth"
	authdomain "github.com/Daniel-Kats256/simulations/internal/auth/domain"
	authhttp "github.com/Daniel-Kats256/simulations/internal/auth/http"
	authrepo "github.com/Daniel-Kats256/simulations/internal/auth/repository"
	authservice "github.com/Daniel-Kats256/simulations/internal/auth/service"
	"github.com/Daniel-Kats256/simulations/internal/reports"
	simhttp "github.com/Daniel-Kats256/simulations/internal/simulations/http"
	simservice "github.com/Daniel-Kats256/simulations/internal/simulations/service"
	"github.com/Daniel-Kats256/simulations/internal/users"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	JWTSecret   string
	TokenTTL    time.Duration
	DB          *pgxpool.Pool
	SimService  *simservice.Service
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())
	r.Use(middleware.RequestID())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	userRepo := authrepo.NewUserRepo(dep.DB)
	authService := authservice.NewAuthService(userRepo, dep.JWTSecret, dep.TokenTTL)

	api := r.Group("/api/v1")

	authhttp.NewHandler(authService).Register(api.Group("/auth"))

	protected := api.Group("")
	protected.Use(auth.Authenticate(authService))

	launchLimiter := middleware.NewLaunchLimiter(1, 5)
	simhttp.NewHandler(dep.SimService).Register(
		protected.Group("/simulations"),
		auth.RequireRoles(authdomain.RoleAdmin, authdomain.RoleAnalyst),
		launchLimiter.Middleware(),
	)

	reports.NewHandler(dep.SimService).Register(protected.Group("/reports"))

	usersGroup := protected.Group("/users")
	usersGroup.Use(auth.RequireRoles(authdomain.RoleAdmin))
	users.NewHandler(users.NewRepo(dep.DB)).Register(usersGroup)

	return r
}
