package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/teamflow-dev/workforce-crm/backend/internal/config"
	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
	"github.com/teamflow-dev/workforce-crm/backend/internal/repository"
)

type Handler struct {
	validate      *validator.Validate
	config        *config.Config
	repository    *repository.Repository
	translator    ut.Translator
	notifyChannel *amqp.Channel
	redisClient   *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, notifyCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:      validate,
		config:        cfg,
		repository:    repo,
		translator:    trans,
		notifyChannel: notifyCh,
		redisClient:   rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/workers", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateWorker)
			r.Get("/", h.GetAllWorkers)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.workerInfo)
				r.Get("/", h.GetWorkerInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateWorker)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteWorker)
			})
		})

		r.Route("/organizations", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateOrganization)
			r.Get("/", h.GetAllOrganizations)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.organizationInfo)
				r.Get("/", h.GetOrganization)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateOrganization)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteOrganization)
			})
		})

		r.Route("/workplaces", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateWorkplace)
			r.Get("/", h.GetWorkplaces)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.workplaceInfo)
				r.Get("/", h.GetWorkplace)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateWorkplace)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteWorkplace)
			})
		})

		r.Route("/constraints", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin})) // 约束规则可能包含隐私信息，只有管理员能查看
			r.Post("/", h.CreateConstraint)
			r.Get("/", h.GetAllConstraints)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.constraintInfo)
				r.Get("/", h.GetConstraint)
				r.Patch("/", h.UpdateConstraint)
				r.Delete("/", h.DeleteConstraint)
			})
		})

		r.Route("/assignments", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateAssignment)
			r.Get("/", h.GetAssignmentRecords)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.assignmentInfo)
				r.Get("/", h.GetAssignment)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateAssignment)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/archive", h.ArchiveAssignment)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.SoftDeleteAssignment)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/restore", h.RestoreAssignment)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/purge", h.HardDeleteAssignment)
			})
		})

		r.Route("/plans", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreatePlan)
			r.Get("/", h.GetAllPlans)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.planInfo)
				r.Get("/", h.GetPlan)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdatePlan)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeletePlan)

				r.Route("/slots", func(r chi.Router) {
					r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
					r.Use(h.mutablePlan)
					r.Post("/", h.BulkAssignSlots)
					r.Post("/auto-assign", h.AutoAssignSlots)
					r.Post("/bulk-move", h.BulkMoveSlots)
					r.Route("/{slotID}", func(r chi.Router) {
						r.Use(h.slotInfo)
						r.Patch("/", h.UpdateSlot)
						r.Delete("/", h.DeleteSlot)
					})
				})
			})
		})

		r.Route("/planner", func(r chi.Router) {
			r.Get("/", h.GetPlannerMatrix)
			r.Get("/export", h.ExportPlannerMatrix)
		})
	})
}
