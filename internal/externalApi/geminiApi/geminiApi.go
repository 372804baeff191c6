package geminiApi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/KotFed0t/ginvest_bot/config"
	"github.com/KotFed0t/ginvest_bot/internal/model/aiModel"
	"github.com/KotFed0t/ginvest_bot/utils"
	"google.golang.org/genai"
)

const (
	DefaultModel  = "gemini-2.0-flash"
	maxToolRounds = 5
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiApi struct {
	models  contentGenerator
	model   string
	timeout time.Duration
}

func New(ctx context.Context, cfg *config.Config) (*GeminiApi, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.API.Gemini.ApiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.API.Gemini.Model
	if model == "" {
		model = DefaultModel
	}

	return &GeminiApi{models: client.Models, model: model, timeout: cfg.API.Timeout}, nil
}

// Generate returns the text of the final answer. When tools are given the function-calling
// loop runs here and the response schema is not sent, the api does not allow both.
func (a *GeminiApi) Generate(ctx context.Context, req aiModel.Request) (text string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "GeminiApi.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op), slog.String("flow", req.Flow))
	defer func() {
		if err != nil {
			slog.Error("Generate failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("flow", req.Flow), slog.String("err", err.Error()))
		} else {
			slog.Debug("Generate finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("flow", req.Flow))
		}
	}()

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	genConfig := &genai.GenerateContentConfig{}
	if req.Instruction != "" {
		genConfig.SystemInstruction = &genai.Content{Parts: []*genai.Part{genai.NewPartFromText(req.Instruction)}}
	}

	tools := make(map[string]aiModel.Tool, len(req.Tools))
	if len(req.Tools) > 0 {
		declarations := make([]*genai.FunctionDeclaration, 0, len(req.Tools))
		for _, t := range req.Tools {
			declarations = append(declarations, t.Declaration)
			tools[t.Declaration.Name] = t
		}
		genConfig.Tools = []*genai.Tool{{FunctionDeclarations: declarations}}
	} else if req.Schema != nil {
		genConfig.ResponseMIMEType = "application/json"
		genConfig.ResponseSchema = req.Schema
	}

	history := genai.Text(req.Prompt)

	for round := 0; round <= maxToolRounds; round++ {
		resp, err := a.models.GenerateContent(ctx, a.model, history, genConfig)
		if err != nil {
			return "", classify(err)
		}

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			text, err := extractTextFromResponse(resp)
			if err != nil {
				return "", aiModel.NewGenerationError(aiModel.CodeInvalidOutput, "empty model response", err)
			}
			return text, nil
		}

		history = append(history, resp.Candidates[0].Content)

		parts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			slog.Debug("model called tool", slog.String("rqID", rqID), slog.String("op", op), slog.String("tool", call.Name), slog.Any("args", call.Args))
			parts = append(parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{
				ID:       call.ID,
				Name:     call.Name,
				Response: callTool(ctx, tools, call),
			}})
		}
		history = append(history, genai.NewContentFromParts(parts, genai.RoleUser))
	}

	return "", aiModel.NewGenerationError(aiModel.CodeInvalidOutput, "too many tool calls", nil)
}

// callTool reports tool failures back to the model instead of failing the request.
func callTool(ctx context.Context, tools map[string]aiModel.Tool, call *genai.FunctionCall) map[string]any {
	tool, ok := tools[call.Name]
	if !ok {
		return map[string]any{"error": fmt.Sprintf("unknown function %q", call.Name)}
	}
	res, err := tool.Call(ctx, call.Args)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return res
}

func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no content generated")
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", errors.New("no text in response")
	}
	return sb.String(), nil
}

// classify maps provider failures to typed codes, reading the google.rpc.ErrorInfo reason first.
func classify(err error) *aiModel.GenerationError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return aiModel.NewGenerationError(aiModel.CodeUnavailable, "request timed out", err)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		for _, detail := range apiErr.Details {
			reason, _ := detail["reason"].(string)
			switch reason {
			case string(aiModel.CodeServiceDisabled):
				return aiModel.NewGenerationError(aiModel.CodeServiceDisabled, apiErr.Message, err)
			case string(aiModel.CodeAPIKeyBlocked):
				return aiModel.NewGenerationError(aiModel.CodeAPIKeyBlocked, apiErr.Message, err)
			}
		}

		switch {
		case apiErr.Status == "PERMISSION_DENIED" || apiErr.Code == 403:
			return aiModel.NewGenerationError(aiModel.CodePermissionDenied, apiErr.Message, err)
		case apiErr.Status == "UNAVAILABLE" || apiErr.Status == "DEADLINE_EXCEEDED" || apiErr.Code >= 500:
			return aiModel.NewGenerationError(aiModel.CodeUnavailable, apiErr.Message, err)
		case apiErr.Status == "INVALID_ARGUMENT":
			return aiModel.NewGenerationError(aiModel.CodeInvalidInput, apiErr.Message, err)
		}
		return aiModel.NewGenerationError(aiModel.CodeUnknown, apiErr.Message, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return aiModel.NewGenerationError(aiModel.CodeUnavailable, "provider unreachable", err)
	}

	return aiModel.NewGenerationError(aiModel.CodeUnknown, "generation failed", err)
}
