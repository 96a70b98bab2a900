// Package mcp provides the MCP (Model Context Protocol) server for owlrdf.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"

	"github.com/Benny93/owlrdf-go/internal/owl"
	"github.com/Benny93/owlrdf-go/internal/storage"
	"github.com/Benny93/owlrdf-go/internal/vocab"
)

const (
	serverName    = "owlrdf-go"
	serverVersion = "0.1.0"

	defaultSearchLimit = 20
)

// Server represents the MCP server.
type Server struct {
	storage    StorageBackend
	vocabulary *vocab.Vocabulary
	server     *mcp.Server
}

// StorageBackend is the read side of storage.StorageBackend used by the
// server.
type StorageBackend interface {
	GetDocument(ctx context.Context, id string) (*storage.Document, error)
	ListDocuments(ctx context.Context) ([]*storage.Document, error)
	SearchAxioms(ctx context.Context, query string, limit int) ([]storage.SearchResult, error)
	Close() error
}

// Tool represents an MCP tool.
type Tool struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
}

// Resource represents an MCP resource.
type Resource struct {
	URI         string
	Name        string
	Description string
	MimeType    string
}

// NewServer creates a new MCP server over stored parse results. The
// vocabulary is what the owl://vocabulary resource reports; nil means OWL 2.
func NewServer(store StorageBackend, v *vocab.Vocabulary) *Server {
	if v == nil {
		v = vocab.OWL2()
	}
	s := &Server{
		storage:    store,
		vocabulary: v,
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)

	return s
}

func documentArg(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: description}
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []Tool {
	return []Tool{
		{
			Name:        "owl_documents",
			Description: "List parsed documents with their axiom, warning and unparsed triple counts.",
			InputSchema: &jsonschema.Schema{
				Type:       "object",
				Properties: map[string]*jsonschema.Schema{},
			},
		},
		{
			Name:        "owl_axioms",
			Description: "List the axioms of a document in functional syntax, optionally filtered by axiom type.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"document": documentArg("Document path relative to the project root"),
					"type":     {Type: "string", Description: "Axiom type such as SubClassOf or ClassAssertion"},
				},
				Required: []string{"document"},
			},
		},
		{
			Name:        "owl_warnings",
			Description: "List warnings raised while consuming triples. Covers all documents when none is given.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"document": documentArg("Document path relative to the project root"),
				},
			},
		},
		{
			Name:        "owl_unparsed",
			Description: "List the triples of a document that no handler consumed.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"document": documentArg("Document path relative to the project root"),
				},
				Required: []string{"document"},
			},
		},
		{
			Name:        "owl_search",
			Description: "Full-text search over stored axioms. Returns ranked axioms matching the query.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"query": {Type: "string", Description: "Search query text"},
					"limit": {Type: "integer", Description: "Maximum number of results"},
				},
				Required: []string{"query"},
			},
		},
	}
}

// ListResources returns all registered resources.
func (s *Server) ListResources() []Resource {
	return []Resource{
		{
			URI:         "owl://overview",
			Name:        "Ontology Overview",
			Description: "Totals and object counts across all parsed documents",
			MimeType:    "text/plain",
		},
		{
			URI:         "owl://vocabulary",
			Name:        "Vocabulary",
			Description: "The URI table triples were matched against",
			MimeType:    "application/yaml",
		},
	}
}

// CallTool executes a tool with the given arguments.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	switch name {
	case "owl_documents":
		return handleDocuments(ctx, s.storage)
	case "owl_axioms":
		document, _ := args["document"].(string)
		axiomType, _ := args["type"].(string)
		return handleAxioms(ctx, s.storage, document, axiomType)
	case "owl_warnings":
		document, _ := args["document"].(string)
		return handleWarnings(ctx, s.storage, document)
	case "owl_unparsed":
		document, _ := args["document"].(string)
		return handleUnparsed(ctx, s.storage, document)
	case "owl_search":
		query, _ := args["query"].(string)
		limit := intArg(args["limit"])
		if limit <= 0 {
			limit = defaultSearchLimit
		}
		return handleSearch(ctx, s.storage, query, limit)
	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

// intArg accepts JSON numbers and the ints tests pass directly.
func intArg(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

// ReadResource reads a resource by URI.
func (s *Server) ReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case "owl://overview":
		return getOverview(ctx, s.storage)
	case "owl://vocabulary":
		return getVocabulary(s.vocabulary)
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}

// Run starts the MCP server with stdio transport.
func (s *Server) Run(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	if stdin == nil || stdout == nil {
		return fmt.Errorf("stdin and stdout must not be nil")
	}

	reader := bufio.NewReader(stdin)
	// One compact JSON message per line.
	encoder := json.NewEncoder(stdout)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadBytes('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		var req map[string]any
		if err := json.Unmarshal(line, &req); err != nil {
			continue
		}

		// Notifications carry no id and get no response.
		if _, ok := req["id"]; !ok {
			continue
		}

		resp := s.handleRequest(ctx, req)
		if err := encoder.Encode(resp); err != nil {
			return err
		}
	}
}

func (s *Server) handleRequest(ctx context.Context, req map[string]any) map[string]any {
	method, _ := req["method"].(string)
	id := req["id"]

	switch method {
	case "initialize":
		return s.handleInitialize(id)
	case "ping":
		return resultResponse(id, map[string]any{})
	case "tools/list":
		return s.handleToolsList(id)
	case "tools/call":
		return s.handleToolsCall(ctx, id, req)
	case "resources/list":
		return s.handleResourcesList(id)
	case "resources/read":
		return s.handleResourcesRead(ctx, id, req)
	default:
		return errorResponse(id, -32601, "Method not found: "+method)
	}
}

func (s *Server) handleInitialize(id any) map[string]any {
	return resultResponse(id, map[string]any{
		"protocolVersion": "2024-11-05",
		"serverInfo": map[string]any{
			"name":    serverName,
			"version": serverVersion,
		},
		"capabilities": map[string]any{
			"tools": map[string]any{
				"listChanged": false,
			},
			"resources": map[string]any{
				"listChanged": false,
			},
		},
	})
}

func (s *Server) handleToolsList(id any) map[string]any {
	tools := s.ListTools()
	toolList := make([]map[string]any, len(tools))
	for i, tool := range tools {
		schema, _ := json.Marshal(tool.InputSchema)
		var schemaMap map[string]any
		_ = json.Unmarshal(schema, &schemaMap)

		toolList[i] = map[string]any{
			"name":        tool.Name,
			"description": tool.Description,
			"inputSchema": schemaMap,
		}
	}

	return resultResponse(id, map[string]any{"tools": toolList})
}

func (s *Server) handleToolsCall(ctx context.Context, id any, req map[string]any) map[string]any {
	params, _ := req["params"].(map[string]any)
	if params == nil {
		return errorResponse(id, -32602, "Invalid params")
	}

	name, _ := params["name"].(string)
	args, _ := params["arguments"].(map[string]any)

	result, err := s.CallTool(ctx, name, args)
	if err != nil {
		return errorResponse(id, -32000, err.Error())
	}

	return resultResponse(id, map[string]any{
		"content": []map[string]any{
			{
				"type": "text",
				"text": result,
			},
		},
	})
}

func (s *Server) handleResourcesList(id any) map[string]any {
	resources := s.ListResources()
	resourceList := make([]map[string]any, len(resources))
	for i, res := range resources {
		resourceList[i] = map[string]any{
			"uri":         res.URI,
			"name":        res.Name,
			"description": res.Description,
			"mimeType":    res.MimeType,
		}
	}

	return resultResponse(id, map[string]any{"resources": resourceList})
}

func (s *Server) handleResourcesRead(ctx context.Context, id any, req map[string]any) map[string]any {
	params, _ := req["params"].(map[string]any)
	if params == nil {
		return errorResponse(id, -32602, "Invalid params")
	}

	uri, _ := params["uri"].(string)

	content, err := s.ReadResource(ctx, uri)
	if err != nil {
		return errorResponse(id, -32000, err.Error())
	}

	mimeType := "text/plain"
	for _, res := range s.ListResources() {
		if res.URI == uri {
			mimeType = res.MimeType
		}
	}

	return resultResponse(id, map[string]any{
		"contents": []map[string]any{
			{
				"uri":      uri,
				"mimeType": mimeType,
				"text":     content,
			},
		},
	})
}

// Tool Handlers

func handleDocuments(ctx context.Context, store StorageBackend) (string, error) {
	docs, err := store.ListDocuments(ctx)
	if err != nil {
		return "Error listing documents: " + err.Error(), nil
	}

	var sb strings.Builder
	sb.WriteString("## Parsed Documents\n\n")

	if len(docs) == 0 {
		sb.WriteString("No documents parsed yet. Run `owlrdf parse` to parse a project.\n")
		return sb.String(), nil
	}

	for _, doc := range docs {
		fmt.Fprintf(&sb, "- `%s`: %d triples, %d axioms, %d warnings, %d unparsed",
			doc.Path, doc.TripleCount, len(doc.Axioms), len(doc.Warnings), len(doc.Unparsed))
		if doc.OntologyIRI != "" {
			fmt.Fprintf(&sb, " (ontology <%s>)", doc.OntologyIRI)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "\nTotal: %d documents\n", len(docs))

	return sb.String(), nil
}

// lookupDocument returns the document or a user-facing message explaining
// why there is none.
func lookupDocument(ctx context.Context, store StorageBackend, id string) (*storage.Document, string) {
	if id == "" {
		return nil, "No document provided"
	}
	doc, err := store.GetDocument(ctx, id)
	if err != nil {
		return nil, "Error retrieving document: " + err.Error()
	}
	if doc == nil {
		return nil, fmt.Sprintf("Document '%s' not found. Use owl_documents to list parsed documents.", id)
	}
	return doc, ""
}

func handleAxioms(ctx context.Context, store StorageBackend, id, axiomType string) (string, error) {
	var filter owl.AxiomType
	if axiomType != "" {
		t, ok := owl.ParseAxiomType(axiomType)
		if !ok {
			names := make([]string, 0, len(owl.AxiomTypes()))
			for _, t := range owl.AxiomTypes() {
				names = append(names, string(t))
			}
			return fmt.Sprintf("Unknown axiom type '%s'. Known types: %s", axiomType, strings.Join(names, ", ")), nil
		}
		filter = t
	}

	doc, msg := lookupDocument(ctx, store, id)
	if doc == nil {
		return msg, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Axioms in %s\n\n", doc.Path)

	n := 0
	for _, ax := range doc.Axioms {
		if filter != "" && ax.Type != string(filter) {
			continue
		}
		fmt.Fprintf(&sb, "- %s\n", ax.Text)
		n++
	}
	if n == 0 {
		sb.WriteString("No matching axioms.\n")
	}

	return sb.String(), nil
}

func handleWarnings(ctx context.Context, store StorageBackend, id string) (string, error) {
	var docs []*storage.Document
	if id != "" {
		doc, msg := lookupDocument(ctx, store, id)
		if doc == nil {
			return msg, nil
		}
		docs = []*storage.Document{doc}
	} else {
		all, err := store.ListDocuments(ctx)
		if err != nil {
			return "Error listing documents: " + err.Error(), nil
		}
		docs = all
	}

	var sb strings.Builder
	sb.WriteString("## Warnings\n\n")

	total := 0
	for _, doc := range docs {
		if len(doc.Warnings) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "### %s (%d)\n", doc.Path, len(doc.Warnings))
		for _, w := range doc.Warnings {
			fmt.Fprintf(&sb, "- [%s]", w.Kind)
			if w.Node != "" {
				fmt.Fprintf(&sb, " %s:", w.Node)
			}
			fmt.Fprintf(&sb, " %s\n", w.Message)
		}
		sb.WriteString("\n")
		total += len(doc.Warnings)
	}

	if total == 0 {
		sb.WriteString("No warnings.\n")
	}

	return sb.String(), nil
}

func handleUnparsed(ctx context.Context, store StorageBackend, id string) (string, error) {
	doc, msg := lookupDocument(ctx, store, id)
	if doc == nil {
		return msg, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Unparsed triples in %s\n\n", doc.Path)

	if len(doc.Unparsed) == 0 {
		sb.WriteString("Every triple was consumed.\n")
		return sb.String(), nil
	}

	sb.WriteString("```\n")
	for _, t := range doc.Unparsed {
		sb.WriteString(t)
		sb.WriteString("\n")
	}
	sb.WriteString("```\n")

	return sb.String(), nil
}

func handleSearch(ctx context.Context, store StorageBackend, query string, limit int) (string, error) {
	if query == "" {
		return "No query provided", nil
	}

	results, err := store.SearchAxioms(ctx, query, limit)
	if err != nil {
		return "Search failed: " + err.Error(), nil
	}

	return formatSearchResults(results, query), nil
}

func formatSearchResults(results []storage.SearchResult, query string) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results found for '%s'", query)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d results for '%s':\n\n", len(results), query)

	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s (%s #%d, score %.0f)\n", i+1, r.Axiom, r.Path, r.Index, r.Score)
	}

	return sb.String()
}

// Resource Handlers

func getOverview(ctx context.Context, store StorageBackend) (string, error) {
	docs, err := store.ListDocuments(ctx)
	if err != nil {
		return "", fmt.Errorf("listing documents: %w", err)
	}

	var triples, axioms, warnings, unparsed int
	counts := make(map[string]int)
	for _, doc := range docs {
		triples += doc.TripleCount
		axioms += len(doc.Axioms)
		warnings += len(doc.Warnings)
		unparsed += len(doc.Unparsed)
		for name, n := range doc.Counts {
			counts[name] += n
		}
	}

	var sb strings.Builder
	sb.WriteString("# owlrdf Overview\n\n")
	fmt.Fprintf(&sb, "**Documents:** %d\n", len(docs))
	fmt.Fprintf(&sb, "**Triples:** %d\n", triples)
	fmt.Fprintf(&sb, "**Axioms:** %d\n", axioms)
	fmt.Fprintf(&sb, "**Warnings:** %d\n", warnings)
	fmt.Fprintf(&sb, "**Unparsed triples:** %d\n", unparsed)

	if len(counts) > 0 {
		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Strings(names)

		sb.WriteString("\n## Object Counts\n\n")
		for _, name := range names {
			fmt.Fprintf(&sb, "- %s: %d\n", name, counts[name])
		}
	}

	return sb.String(), nil
}

func getVocabulary(v *vocab.Vocabulary) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding vocabulary: %w", err)
	}
	return string(data), nil
}

// Helper functions

func resultResponse(id any, result map[string]any) map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	}
}

func errorResponse(id any, code int, message string) map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	}
}
