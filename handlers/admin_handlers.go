package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"agrohub-ai/database"
	"agrohub-ai/models"
	"agrohub-ai/utils"
)

// HandleOverrideForecast replaces a stored forecast snapshot with admin
// adjustments and appends an audit-log entry.
// PUT /api/v1/admin/forecasts/:forecastId/override
func HandleOverrideForecast(c *fiber.Ctx) error {
	forecastID := c.Params("forecastId")
	if _, err := uuid.Parse(forecastID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid forecast ID",
		})
	}

	var override models.ForecastOverride
	if err := c.BodyParser(&override); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	forecastsJSON, err := json.Marshal(override.Forecasts)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid forecast payload",
		})
	}

	db := database.GetDB()
	ctx := c.Context()

	tag, err := db.Exec(ctx, `
		UPDATE ai_forecasts
		SET is_overridden = true,
		    override_by = $1,
		    override_at = $2,
		    override_reason = $3,
		    forecasts = $4
		WHERE id = $5
	`, override.AdminID, time.Now(), override.Reason, forecastsJSON, forecastID)
	if err != nil {
		zap.L().Error("forecast override failed", zap.String("forecastId", forecastID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to override forecast",
		})
	}
	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Forecast not found",
		})
	}

	changesJSON, err := json.Marshal(override.Changes)
	if err != nil {
		changesJSON = []byte("[]")
	}
	_, err = db.Exec(ctx, `
		INSERT INTO audit_logs (id, action, performed_by, target_type, target_id, changes, reason, created_at)
		VALUES ($1, 'ai_forecast_override', $2, 'forecast', $3, $4, $5, $6)
	`, uuid.NewString(), override.AdminID, forecastID, changesJSON, override.Reason, time.Now())
	if err != nil {
		// The override itself committed; a missing audit row is logged
		// rather than unwound.
		zap.L().Error("audit log append failed", zap.String("forecastId", forecastID), zap.Error(err))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Forecast overridden successfully",
	})
}

// HandleGetAuditLogs lists audit-log entries, newest first.
// GET /api/v1/admin/audit-logs?action=&page=&pageSize=
func HandleGetAuditLogs(c *fiber.Ctx) error {
	action := c.Query("action")
	page := c.QueryInt("page", 1)
	pageSize := utils.ClampLimit(c.QueryInt("pageSize", 50), 50, 200)
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	db := database.GetDB()
	ctx := c.Context()

	countQuery := `SELECT COUNT(*) FROM audit_logs`
	listQuery := `
		SELECT id, action, performed_by, target_type, target_id, COALESCE(reason, ''), created_at
		FROM audit_logs
	`
	args := []interface{}{}
	if action != "" {
		args = append(args, action)
		countQuery += " WHERE action = $1"
		listQuery += " WHERE action = $1"
	}

	var total int
	if err := db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		zap.L().Error("audit log count failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to retrieve audit logs",
		})
	}

	args = append(args, pageSize, offset)
	listQuery += " ORDER BY created_at DESC"
	if action != "" {
		listQuery += " LIMIT $2 OFFSET $3"
	} else {
		listQuery += " LIMIT $1 OFFSET $2"
	}

	rows, err := db.Query(ctx, listQuery, args...)
	if err != nil {
		zap.L().Error("audit log query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to retrieve audit logs",
		})
	}
	defer rows.Close()

	logs := []models.AuditLog{}
	for rows.Next() {
		var entry models.AuditLog
		if err := rows.Scan(&entry.ID, &entry.Action, &entry.PerformedBy, &entry.TargetType,
			&entry.TargetID, &entry.Reason, &entry.CreatedAt); err != nil {
			zap.L().Error("audit log scan failed", zap.Error(err))
			continue
		}
		logs = append(logs, entry)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       logs,
		"pagination": utils.CreatePagination(total, page, pageSize),
	})
}
