// Package http 销售服务的 HTTP 接口层
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
	"github.com/wyfcoding/salesanalytics/internal/sales/application"
	"github.com/wyfcoding/salesanalytics/internal/sales/domain"
)

const dateLayout = "2006-01-02"

// SalesHandler 销售录入与分析 HTTP 处理器
type SalesHandler struct {
	command *application.SalesCommandService
	query   *application.SalesQueryService
}

func NewSalesHandler(command *application.SalesCommandService, query *application.SalesQueryService) *SalesHandler {
	return &SalesHandler{command: command, query: query}
}

// RegisterRoutes 注册路由
func (h *SalesHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/sales")
	{
		api.POST("/daily", h.RecordDailySale)
		api.GET("/daily", h.ListSales)
		api.POST("/targets", h.SetTarget)
		api.GET("/analytics/weekday", h.WeekdayPerformance)
		api.GET("/analytics/seasonality", h.MonthlySeasonality)
		api.GET("/analytics/attribution", h.Attribution)
		api.GET("/analytics/attainment", h.TargetAttainment)
	}
}

// RecordDailySale 录入日销售额
func (h *SalesHandler) RecordDailySale(c *gin.Context) {
	var cmd application.RecordDailySaleCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	sale, err := h.command.RecordDailySale(c.Request.Context(), cmd)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to record daily sale",
			"channel_id", cmd.ChannelID, "date", cmd.Date, "error", err)
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	response.Success(c, sale)
}

// ListSales 查询范围内的销售记录
func (h *SalesHandler) ListSales(c *gin.Context) {
	start, end, err := parseRange(c)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	sales, err := h.query.ListSales(c.Request.Context(), start, end)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list sales", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, sales)
}

// SetTarget 设定销售目标
func (h *SalesHandler) SetTarget(c *gin.Context) {
	var cmd application.SetTargetCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	target, err := h.command.SetTarget(c.Request.Context(), cmd)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to set target",
			"channel_id", cmd.ChannelID, "year", cmd.Year, "month", cmd.Month, "error", err)
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	response.Success(c, target)
}

// WeekdayPerformance 按星期几的表现
func (h *SalesHandler) WeekdayPerformance(c *gin.Context) {
	start, end, err := parseRange(c)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := h.query.WeekdayPerformance(c.Request.Context(), start, end)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to compute weekday performance", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, result)
}

// MonthlySeasonality 月度季节性
func (h *SalesHandler) MonthlySeasonality(c *gin.Context) {
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid year", "")
		return
	}

	result, err := h.query.MonthlySeasonality(c.Request.Context(), year)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to compute seasonality", "year", year, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, result)
}

// Attribution 按渠道类型的销售占比
func (h *SalesHandler) Attribution(c *gin.Context) {
	start, end, err := parseRange(c)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := h.query.Attribution(c.Request.Context(), start, end)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to compute attribution", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, result)
}

// TargetAttainment 目标达成情况
func (h *SalesHandler) TargetAttainment(c *gin.Context) {
	channelID := c.Query("channel_id")
	if channelID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "channel_id is required", "")
		return
	}
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid year", "")
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", "0"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid month", "")
		return
	}

	result, err := h.query.TargetAttainment(c.Request.Context(), channelID, year, month)
	if err != nil {
		if errors.Is(err, domain.ErrTargetNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "target not found", "")
			return
		}
		logging.Error(c.Request.Context(), "Failed to compute attainment",
			"channel_id", channelID, "year", year, "month", month, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, result)
}

// parseRange 解析 start/end 查询参数，缺省为最近 30 天。
func parseRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	start := now.AddDate(0, 0, -30)
	end := now.AddDate(0, 0, 1)

	if s := c.Query("start"); s != "" {
		parsed, err := time.Parse(dateLayout, s)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = parsed
	}
	if e := c.Query("end"); e != "" {
		parsed, err := time.Parse(dateLayout, e)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = parsed
	}
	return start, end, nil
}
