package main

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"astra-assistant/internal/chat"
	"astra-assistant/internal/config"
	"astra-assistant/internal/gateway"
	"astra-assistant/internal/kb"
	"astra-assistant/internal/session"
)

// AskParams are the arguments of the ask_astra tool.
type AskParams struct {
	Question string `json:"question" mcp:"the question to ask the assistant"`
	UserID   string `json:"user_id,omitempty" mcp:"identity whose conversation to use (guest when empty)"`
}

// ListFaqsParams are the arguments of the list_faqs tool.
type ListFaqsParams struct {
	Query string `json:"query,omitempty" mcp:"optional filter matched against category or question"`
}

// UsageStatsParams are the arguments of the usage_stats tool.
type UsageStatsParams struct {
	UserID string `json:"user_id,omitempty" mcp:"identity whose usage stats to report (guest when empty)"`
}

// AstraMCPServer exposes the assistant engine as MCP tools.
type AstraMCPServer struct {
	manager *chat.Manager
}

func NewAstraMCPServer(manager *chat.Manager) *AstraMCPServer {
	return &AstraMCPServer{manager: manager}
}

// Ask routes the question through the engine (FAQ first, AI fallback) and
// returns the assistant's reply once the turn resolves.
func (s *AstraMCPServer) Ask(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[AskParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments

	log.Printf("💬 MCP Server: question from %q: %q", args.UserID, args.Question)

	e, _ := s.manager.Engine(args.UserID)
	before := len(e.Messages())
	e.Submit(args.Question)
	e.Wait()

	msgs := e.Messages()
	if len(msgs) <= before {
		return &mcp.CallToolResultFor[any]{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: "❌ Empty question, nothing to answer"},
			},
		}, nil
	}

	reply := msgs[len(msgs)-1]
	result := &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: reply.Text},
		},
		Meta: map[string]interface{}{
			"source":    string(reply.Source),
			"followups": reply.Followups,
			"success":   true,
		},
	}
	return result, nil
}

// ListFaqs returns the catalog, optionally filtered.
func (s *AstraMCPServer) ListFaqs(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[ListFaqsParams]) (*mcp.CallToolResultFor[any], error) {
	entries := s.manager.Catalog().ByCategory(params.Arguments.Query)

	var text string
	if len(entries) == 0 {
		text = "📋 No FAQs match that search"
	} else {
		text = fmt.Sprintf("📋 %d FAQ entries:", len(entries))
		for i, e := range entries {
			text += fmt.Sprintf("\n%d. [%s] %s", i+1, e.Category, e.Question)
		}
	}

	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		Meta: map[string]interface{}{
			"faqs":    entries,
			"total":   len(entries),
			"success": true,
		},
	}, nil
}

// UsageStats reports per-key usage counts for an identity.
func (s *AstraMCPServer) UsageStats(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[UsageStatsParams]) (*mcp.CallToolResultFor[any], error) {
	e, _ := s.manager.Engine(params.Arguments.UserID)
	counts := e.Stats()

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return counts[keys[i]] > counts[keys[j]] })

	var text string
	if len(keys) == 0 {
		text = "📊 No events yet"
	} else {
		text = "📊 Usage counts:"
		for _, k := range keys {
			text += fmt.Sprintf("\n- %s: %d", k, counts[k])
		}
	}

	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		Meta: map[string]interface{}{
			"counts":  counts,
			"success": true,
		},
	}, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	store, err := session.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("❌ failed to init session store: %v", err)
	}
	gw, err := gateway.NewFromConfig(cfg, "")
	if err != nil {
		log.Fatalf("❌ failed to create ai gateway: %v", err)
	}

	// zero delays: MCP clients should not wait out typing animation
	manager := chat.NewManager(kb.Default(), gw, store, chat.Delays{})

	log.Printf("🚀 Starting Astra MCP Server")

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "astra-assistant-mcp",
		Version: "1.0.0",
	}, nil)

	astraServer := NewAstraMCPServer(manager)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_astra",
		Description: "Asks the Astra assistant a question; answers from the FAQ catalog or the AI service",
	}, astraServer.Ask)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_faqs",
		Description: "Lists the FAQ catalog, optionally filtered by category or question text",
	}, astraServer.ListFaqs)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "usage_stats",
		Description: "Reports per-key usage analytics for an identity",
	}, astraServer.UsageStats)

	log.Printf("📋 Registered 3 tools: ask_astra, list_faqs, usage_stats")
	log.Printf("🔗 Starting server on stdin/stdout...")

	transport := mcp.NewStdioTransport()
	if err := server.Run(context.Background(), transport); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
