package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
)

// notifyWorkers 在写入成功后向相关员工发送通知
// 通知属于尽力而为的旁路：发送失败只记日志，不影响已经提交的业务结果，调用方应该用 go 调用
func (h *Handler) notifyWorkers(workerIDs []int64, msgType string, data func(worker *domain.Worker) any) {
	// 同一批操作中同一个员工只通知一次
	ids := make([]int64, 0, len(workerIDs))
	for _, id := range workerIDs {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}

	workers, err := h.repository.GetWorkersByIDs(ids)
	if err != nil {
		slog.Error("发送通知前获取员工信息失败", "type", msgType, "error", err)
		return
	}

	for _, worker := range workers {
		message := domain.NotificationMessage{
			Type: msgType,
			To:   worker.Email,
			Data: data(worker),
		}

		body, err := json.Marshal(message)
		if err != nil {
			slog.Error("序列化通知消息失败", "type", msgType, "to", worker.Email, "error", err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)

		if err := h.notifyChannel.PublishWithContext(
			ctx,
			"",
			"notification_queue",
			true,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        body,
			},
		); err != nil {
			slog.Error("发送通知到消息队列失败", "type", msgType, "to", worker.Email, "error", err)
		}

		cancel()
	}
}
