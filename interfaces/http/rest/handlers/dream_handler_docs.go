package handlers

// This file contains OpenAPI/Swagger documentation for DreamHandler and ImageHandler endpoints

// ListDreams lists a user's dreams
// @Summary List dreams
// @Description Returns the user's dreams, newest first
// @Tags dreams
// @Produce json
// @Param userId query int false "User ID" default(1)
// @Success 200 {array} dream.Dream
// @Failure 400 {object} errors.ErrorResponse "Invalid userId"
// @Failure 500 {object} errors.ErrorResponse "Internal server error"
// @Router /dreams [get]

// CreateDream stores a dream as given
// @Summary Create a dream
// @Description Stores a dream without analysis
// @Tags dreams
// @Accept json
// @Produce json
// @Param request body handlers.CreateDreamRequest true "Dream"
// @Success 201 {object} dream.Dream
// @Failure 400 {object} errors.ErrorResponse "Invalid request"
// @Failure 500 {object} errors.ErrorResponse "Internal server error"
// @Router /dreams [post]

// SearchDreams searches a user's dreams
// @Summary Search dreams
// @Description Case-insensitive substring match on title, content, analysis, archetypes and symbols
// @Tags dreams
// @Produce json
// @Param userId query int false "User ID" default(1)
// @Param q query string true "Search text"
// @Success 200 {array} dream.Dream
// @Failure 400 {object} errors.ErrorResponse "Missing query"
// @Router /dreams/search [get]

// AnalyzeDream analyzes and stores a new dream
// @Summary Analyze a dream
// @Description Sends the dream and the user's three latest dreams to the analysis model, stores the result and records it in the chat log
// @Tags dreams
// @Accept json
// @Produce json
// @Param request body handlers.AnalyzeDreamRequest true "Dream text"
// @Success 200 {object} services.AnalyzeResult
// @Failure 400 {object} errors.ErrorResponse "Missing dreamContent"
// @Failure 500 {object} errors.ErrorResponse "Upstream failure, message carries the upstream text"
// @Failure 503 {object} errors.ErrorResponse "Analysis provider temporarily unavailable"
// @Router /dreams/analyze [post]

// GetDream retrieves a dream
// @Summary Get dream by ID
// @Tags dreams
// @Produce json
// @Param id path int true "Dream ID"
// @Success 200 {object} dream.Dream
// @Failure 400 {object} errors.ErrorResponse "Invalid id"
// @Failure 404 {object} errors.ErrorResponse "Dream not found"
// @Router /dreams/{id} [get]

// UpdateDream applies a partial update
// @Summary Update a dream
// @Description Only the fields present in the body change
// @Tags dreams
// @Accept json
// @Produce json
// @Param id path int true "Dream ID"
// @Param request body handlers.UpdateDreamRequest true "Partial dream"
// @Success 200 {object} dream.Dream
// @Failure 400 {object} errors.ErrorResponse "Invalid request"
// @Failure 404 {object} errors.ErrorResponse "Dream not found"
// @Router /dreams/{id} [patch]

// DeleteDream removes a dream
// @Summary Delete a dream
// @Description Chat messages that reference the dream are kept
// @Tags dreams
// @Param id path int true "Dream ID"
// @Success 204 "Dream deleted"
// @Failure 404 {object} errors.ErrorResponse "Dream not found"
// @Router /dreams/{id} [delete]

// GenerateDreamImage illustrates a stored dream
// @Summary Generate an image for a dream
// @Description Generates an illustration, stores its URL on the dream and records it in the chat log
// @Tags dreams
// @Produce json
// @Param dreamId path int true "Dream ID"
// @Success 200 {object} services.IllustrateResult
// @Failure 404 {object} errors.ErrorResponse "Dream not found"
// @Failure 500 {object} errors.ErrorResponse "Upstream failure"
// @Router /dreams/{dreamId}/generate-image [post]

// GenerateImage illustrates a free-form prompt
// @Summary Generate an image
// @Description A prompt refused on content grounds is retried once with a safe prompt
// @Tags images
// @Accept json
// @Produce json
// @Param request body handlers.GenerateImageRequest true "Prompt"
// @Success 200 {object} handlers.GenerateImageResponse
// @Failure 400 {object} errors.ErrorResponse "Missing prompt"
// @Failure 500 {object} errors.ErrorResponse "Upstream failure"
// @Router /generate-image [post]
