package server

import (
	"errors"
	"fmt"
	"sort"

	"warehouse-inventory-api/internal/config"
	"warehouse-inventory-api/internal/handler"
	"warehouse-inventory-api/internal/middleware"
	"warehouse-inventory-api/internal/model"
	"warehouse-inventory-api/internal/repository"
	"warehouse-inventory-api/internal/service"
	"warehouse-inventory-api/internal/ws"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Mount is one resource router to attach under /api/<Key>. Build returns the
// sub-app holding its routes.
type Mount struct {
	Key   string
	Build func() (*fiber.App, error)
}

// Deps are the collaborators the application is assembled from.
type Deps struct {
	Config *config.Config
	Log    *zap.Logger
	Store  repository.TableQuery
	Hub    *ws.Hub
	// Mounts defaults to ResourceMounts over the default resources.
	Mounts []Mount
	// Dashboard, when set, is mounted at /dashboard.
	Dashboard *fiber.App
}

type Server struct {
	App     *fiber.App
	log     *zap.Logger
	mounted map[string]bool
}

// ResourceMounts builds one Mount per resource on top of store.
func ResourceMounts(resources []model.Resource, store repository.TableQuery, events service.EventPublisher, log *zap.Logger) []Mount {
	mounts := make([]Mount, 0, len(resources))
	for _, res := range resources {
		res := res
		mounts = append(mounts, Mount{
			Key: res.Key,
			Build: func() (*fiber.App, error) {
				if err := res.Validate(); err != nil {
					return nil, err
				}
				sub := fiber.New()
				svc := service.NewResourceService(res, store, events)
				handler.NewResourceHandler(svc, log).Register(sub)
				return sub, nil
			},
		})
	}
	return mounts
}

// Resources returns the default resources with configuration overrides applied.
func Resources(cfg *config.Config) []model.Resource {
	resources := model.DefaultResources()
	for i := range resources {
		if resources[i].Key == model.ResourceSuppliers && cfg.Store.SuppliersItemTable != resources[i].Table {
			resources[i].ItemTable = cfg.Store.SuppliersItemTable
		}
	}
	return resources
}

func New(deps Deps) *Server {
	app := fiber.New(fiber.Config{
		AppName: deps.Config.Server.AppName,
	})

	// Middleware
	app.Use(fiberrecover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.NewString() },
	}))
	app.Use(cors.New())
	app.Use(middleware.RequestLogger(deps.Log))

	app.Get("/", handler.Liveness)

	mounts := deps.Mounts
	if mounts == nil {
		var events service.EventPublisher
		if deps.Hub != nil {
			events = deps.Hub
		}
		mounts = ResourceMounts(Resources(deps.Config), deps.Store, events, deps.Log)
	}

	s := &Server{App: app, log: deps.Log, mounted: make(map[string]bool)}
	for _, m := range mounts {
		s.mount(m)
	}

	if deps.Hub != nil {
		app.Use("/ws", ws.Upgrade())
		app.Get("/ws", deps.Hub.Handler())
	}
	if deps.Dashboard != nil {
		app.Mount("/dashboard", deps.Dashboard)
	}

	return s
}

// mount attaches one router. A builder that errors or panics leaves its
// prefix without routes and does not affect the others.
func (s *Server) mount(m Mount) {
	prefix := "/api/" + m.Key

	sub, err := safeBuild(m.Build)
	if err != nil {
		s.log.Error("failed to mount resource router",
			zap.String("resource", m.Key),
			zap.String("prefix", prefix),
			zap.Error(err),
		)
		return
	}

	s.App.Mount(prefix, sub)
	s.mounted[m.Key] = true
	s.log.Info("resource router mounted", zap.String("prefix", prefix))
}

func safeBuild(build func() (*fiber.App, error)) (sub *fiber.App, err error) {
	defer func() {
		if r := recover(); r != nil {
			sub, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	sub, err = build()
	if err == nil && sub == nil {
		err = errors.New("builder returned no router")
	}
	return sub, err
}

// Mounted lists the keys of the routers that loaded, sorted.
func (s *Server) Mounted() []string {
	keys := make([]string, 0, len(s.mounted))
	for k := range s.mounted {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Server) Listen(addr string) error {
	return s.App.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.App.Shutdown()
}
