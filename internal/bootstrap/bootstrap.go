package bootstrap

import (
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/teamflow-dev/workforce-crm/backend/internal/config"
	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
	"github.com/teamflow-dev/workforce-crm/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Ensure 在进程启动时显式执行一次，确保数据库中存在初始组织和初始管理员
// 重复执行是安全的：唯一约束冲突说明初始数据已经存在，直接跳过
func Ensure(cfg *config.Config, repo *repository.Repository) error {
	org := &domain.Organization{
		Name:      cfg.InitialOrganization.Name,
		ShortCode: cfg.InitialOrganization.ShortCode,
	}
	if err := repo.CreateOrganization(org); err != nil {
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.ConstraintName != "organizations_name_key" {
			return err
		}
		slog.Info("初始组织已存在，跳过创建", "name", org.Name)
		orgs, err := repo.GetAllOrganizations()
		if err != nil {
			return err
		}
		for _, existing := range orgs {
			if existing.Name == org.Name {
				org = existing
				break
			}
		}
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.InitialAdmin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &domain.Worker{
		Username:       cfg.InitialAdmin.Username,
		PasswordHash:   string(passwordHash),
		FullName:       cfg.InitialAdmin.FullName,
		Email:          cfg.InitialAdmin.Email,
		Role:           domain.RoleAdmin,
		OrganizationID: &org.ID,
	}
	if err := repo.CreateWorker(admin); err != nil {
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.ConstraintName != "workers_username_key" {
			return err
		}
		slog.Info("初始管理员已存在，跳过创建", "username", admin.Username)
	}

	return nil
}
