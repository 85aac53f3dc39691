package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
	"github.com/wyfcoding/salesanalytics/internal/anomaly/application"
	"github.com/wyfcoding/salesanalytics/internal/anomaly/domain"
)

// AnomalyHandler HTTP 处理器
type AnomalyHandler struct {
	query     *application.AnomalyQueryService
	command   *application.AnomalyCommandService
	detection *application.DetectionService
}

func NewAnomalyHandler(
	query *application.AnomalyQueryService,
	command *application.AnomalyCommandService,
	detection *application.DetectionService,
) *AnomalyHandler {
	return &AnomalyHandler{query: query, command: command, detection: detection}
}

// RegisterRoutes 注册路由
func (h *AnomalyHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/anomalies")
	{
		api.GET("", h.ListActive)
		api.GET("/summary", h.Summary)
		api.GET("/preview", h.Preview)
		api.POST("/:id/dismiss", h.Dismiss)
		api.POST("/detection/run", h.RunDetection)
	}
}

// ListActive 获取窗口期内未关闭的异常列表
func (h *AnomalyHandler) ListActive(c *gin.Context) {
	windowDays := h.windowDays(c)

	dtos, err := h.query.ListActive(c.Request.Context(), windowDays)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list active anomalies", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, dtos)
}

// Summary 获取活跃异常的严重级别分布
func (h *AnomalyHandler) Summary(c *gin.Context) {
	summary, err := h.query.Summary(c.Request.Context(), h.windowDays(c))
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to summarize anomalies", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, summary)
}

// Preview 实时检测预览。数据源不可用时静默降级为已持久化列表。
func (h *AnomalyHandler) Preview(c *gin.Context) {
	candidates, err := h.detection.Preview(c.Request.Context())
	if err != nil {
		logging.Error(c.Request.Context(), "Live anomaly preview unavailable, falling back to persisted list", "error", err)
		persisted, listErr := h.query.ListActive(c.Request.Context(), 0)
		if listErr != nil {
			response.ErrorWithStatus(c, http.StatusInternalServerError, listErr.Error(), "")
			return
		}
		response.Success(c, gin.H{"live": false, "persisted": persisted})
		return
	}
	response.Success(c, gin.H{"live": true, "candidates": candidates})
}

// Dismiss 关闭单条异常
func (h *AnomalyHandler) Dismiss(c *gin.Context) {
	anomalyID := c.Param("id")

	var body struct {
		DismissedBy string `json:"dismissed_by"`
	}
	// body 可为空，关闭人可选
	_ = c.ShouldBindJSON(&body)

	err := h.command.Dismiss(c.Request.Context(), application.DismissCommand{
		AnomalyID:   anomalyID,
		DismissedBy: body.DismissedBy,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAnomalyNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "anomaly not found", "")
			return
		}
		logging.Error(c.Request.Context(), "Failed to dismiss anomaly", "anomaly_id", anomalyID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"anomaly_id": anomalyID})
}

// RunDetection 供外部调度器触发的批量检测入口，无参数，始终评估"昨天"。
func (h *AnomalyHandler) RunDetection(c *gin.Context) {
	summary, err := h.detection.Run(c.Request.Context())
	if err != nil {
		logging.Error(c.Request.Context(), "Anomaly detection run failed", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, summary)
}

func (h *AnomalyHandler) windowDays(c *gin.Context) int {
	windowDays, _ := strconv.Atoi(c.DefaultQuery("window_days", "30"))
	return windowDays
}
