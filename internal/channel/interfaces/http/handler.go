// Package http 渠道目录服务的 HTTP 接口层
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
	"github.com/wyfcoding/salesanalytics/internal/channel/application"
	"github.com/wyfcoding/salesanalytics/internal/channel/domain"
)

// ChannelHandler 渠道目录 HTTP 处理器
type ChannelHandler struct {
	command *application.ChannelCommandService
	query   *application.ChannelQueryService
}

func NewChannelHandler(command *application.ChannelCommandService, query *application.ChannelQueryService) *ChannelHandler {
	return &ChannelHandler{command: command, query: query}
}

// RegisterRoutes 注册路由
func (h *ChannelHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/channels")
	{
		api.POST("", h.CreateChannel)
		api.GET("", h.ListChannels)
		api.GET("/:id", h.GetChannel)
		api.PUT("/:id", h.UpdateChannel)
		api.POST("/:id/archive", h.ArchiveChannel)
		api.POST("/:id/subchannels", h.CreateSubChannel)
		api.GET("/:id/subchannels", h.ListSubChannels)
	}
}

// CreateChannel 创建渠道
func (h *ChannelHandler) CreateChannel(c *gin.Context) {
	var cmd application.CreateChannelCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	channel, err := h.command.CreateChannel(c.Request.Context(), cmd)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to create channel", "name", cmd.Name, "error", err)
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	response.Success(c, channel)
}

// ListChannels 渠道列表
func (h *ChannelHandler) ListChannels(c *gin.Context) {
	activeOnly := c.DefaultQuery("active_only", "false") == "true"

	channels, err := h.query.ListChannels(c.Request.Context(), activeOnly)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list channels", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, channels)
}

// GetChannel 获取单个渠道
func (h *ChannelHandler) GetChannel(c *gin.Context) {
	channelID := c.Param("id")

	channel, err := h.query.GetChannel(c.Request.Context(), channelID)
	if err != nil {
		if errors.Is(err, domain.ErrChannelNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "channel not found", "")
			return
		}
		logging.Error(c.Request.Context(), "Failed to get channel", "channel_id", channelID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, channel)
}

// UpdateChannel 更新渠道
func (h *ChannelHandler) UpdateChannel(c *gin.Context) {
	var cmd application.UpdateChannelCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	cmd.ChannelID = c.Param("id")

	channel, err := h.command.UpdateChannel(c.Request.Context(), cmd)
	if err != nil {
		if errors.Is(err, domain.ErrChannelNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "channel not found", "")
			return
		}
		logging.Error(c.Request.Context(), "Failed to update channel", "channel_id", cmd.ChannelID, "error", err)
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	response.Success(c, channel)
}

// ArchiveChannel 归档渠道
func (h *ChannelHandler) ArchiveChannel(c *gin.Context) {
	channelID := c.Param("id")

	err := h.command.ArchiveChannel(c.Request.Context(), application.ArchiveChannelCommand{ChannelID: channelID})
	if err != nil {
		if errors.Is(err, domain.ErrChannelNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "channel not found", "")
			return
		}
		logging.Error(c.Request.Context(), "Failed to archive channel", "channel_id", channelID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"channel_id": channelID, "archived": true})
}

// CreateSubChannel 创建子渠道
func (h *ChannelHandler) CreateSubChannel(c *gin.Context) {
	var cmd application.CreateSubChannelCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	cmd.ChannelID = c.Param("id")

	subChannel, err := h.command.CreateSubChannel(c.Request.Context(), cmd)
	if err != nil {
		if errors.Is(err, domain.ErrChannelNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "channel not found", "")
			return
		}
		logging.Error(c.Request.Context(), "Failed to create sub channel", "channel_id", cmd.ChannelID, "error", err)
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	response.Success(c, subChannel)
}

// ListSubChannels 子渠道列表
func (h *ChannelHandler) ListSubChannels(c *gin.Context) {
	channelID := c.Param("id")

	subChannels, err := h.query.ListSubChannels(c.Request.Context(), channelID)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list sub channels", "channel_id", channelID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, subChannels)
}
