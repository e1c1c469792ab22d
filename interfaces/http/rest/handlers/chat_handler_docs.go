package handlers

// This file contains OpenAPI/Swagger documentation for ChatHandler and InsightsHandler endpoints

// ListMessages returns a chat thread
// @Summary List chat messages
// @Description Returns a dream's thread oldest first, or the global feed when dreamId is omitted
// @Tags chat
// @Produce json
// @Param dreamId query int false "Dream ID"
// @Success 200 {array} dream.ChatMessage
// @Failure 400 {object} errors.ErrorResponse "Invalid dreamId"
// @Router /chat/messages [get]

// RecentMessages returns the newest messages
// @Summary Recent chat messages
// @Tags chat
// @Produce json
// @Param limit query int false "Maximum messages" default(10) maximum(100)
// @Success 200 {array} dream.ChatMessage
// @Router /chat/recent [get]

// PostMessage appends a chat message
// @Summary Post a chat message
// @Tags chat
// @Accept json
// @Produce json
// @Param request body handlers.PostMessageRequest true "Message"
// @Success 200 {object} dream.ChatMessage
// @Failure 400 {object} errors.ErrorResponse "Schema violation"
// @Router /chat/message [post]

// GetInsights summarizes a user's dreams
// @Summary Dream insights
// @Description Archetype and symbol frequencies, individuation progress, recent patterns and streak
// @Tags insights
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} dream.Insights
// @Failure 400 {object} errors.ErrorResponse "Invalid userId"
// @Router /insights/{userId} [get]
