package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/teamflow-dev/workforce-crm/backend/internal/config"
	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
	"github.com/teamflow-dev/workforce-crm/backend/internal/repository"
	"github.com/teamflow-dev/workforce-crm/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var planID int64

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机组织和工作场所, 2: 插入随机员工, 3: 插入随机排班活动, 4: 为指定排班活动插入随机排班记录)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Int64Var(&planID, "plan-id", 0, "随机插入排班记录的排班活动 ID")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的组织数量")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			org := utils.GenerateRandomOrganization()
			if err := repo.CreateOrganization(org); err != nil {
				slog.Error("无法插入组织", slog.String("error", err.Error()))
				continue
			}

			// 每个组织附带两到四个工作场所
			for j := 0; j < rand.Intn(3)+2; j++ {
				wp := utils.GenerateRandomWorkplace(org.ID)
				if err := repo.CreateWorkplace(wp); err != nil {
					slog.Error("无法插入工作场所", slog.String("error", err.Error()))
				}
			}

			cnt--
		}

		slog.Info("插入组织成功", slog.Int("count", n-cnt))
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
			return
		}

		// 随机员工需要挂到已有的组织下
		orgs, err := repo.GetAllOrganizations()
		if err != nil {
			slog.Error("无法获取组织列表", slog.String("error", err.Error()))
			return
		}
		if len(orgs) == 0 {
			slog.Error("数据库中没有任何组织，请先插入组织")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			org := orgs[rand.Intn(len(orgs))]
			worker, err := utils.GenerateRandomWorker(cfg.Seed.Worker.Password, cfg.Email.UserDomain, &org.ID)
			if err != nil {
				slog.Error("无法生成随机员工", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateWorker(worker); err != nil {
				slog.Error("无法插入员工", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入员工成功", slog.Int("count", n-cnt))
	case 3:
		if n <= 0 {
			slog.Error("请输入合法的排班活动数量")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			plan := utils.GenerateRandomPlan(time.Now())
			if err := repo.CreatePlan(plan); err != nil {
				slog.Error("无法插入排班活动", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入排班活动成功", slog.Int("count", n-cnt))
	case 4:
		if planID <= 0 {
			slog.Error("请输入合法的排班活动 ID")
			return
		}

		plan, err := repo.GetPlanByID(planID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				slog.Error("指定的排班活动不存在", slog.Int64("plan_id", planID))
			default:
				slog.Error("无法获取排班活动", slog.String("error", err.Error()))
			}
			return
		}

		workers, err := repo.GetSchedulableWorkers()
		if err != nil {
			slog.Error("无法获取可排班的员工列表", slog.String("error", err.Error()))
			return
		}
		if len(workers) == 0 {
			slog.Error("数据库中没有可排班的员工，请先插入员工")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			worker := workers[rand.Intn(len(workers))]
			slot := utils.GenerateRandomSlot(plan, worker.ID, *worker.OrganizationID)
			if err := repo.InsertSlots([]*domain.Slot{slot}); err != nil {
				slog.Error("无法插入排班记录", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入排班记录成功", slog.Int("count", n-cnt))
	default:
		slog.Error("未知的操作", slog.Int("op", op))
	}
}
