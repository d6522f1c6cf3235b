package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/samber/mo"

	"github.com/jinford/med-rag/internal/core/chat"
	"github.com/jinford/med-rag/internal/core/document"
	"github.com/jinford/med-rag/internal/core/retrieval"
)

// chatRequest は POST /api/ai/chat のリクエストボディ
type chatRequest struct {
	Message             string          `json:"message"`
	ConversationHistory []chat.Exchange `json:"conversation_history,omitempty"`
}

// chatResponse は POST /api/ai/chat のレスポンスボディ
type chatResponse struct {
	Question   string `json:"question"`
	Response   string `json:"response"`
	NumSources int    `json:"num_sources"`
}

// searchRequest は POST /api/ai/search のリクエストボディ
type searchRequest struct {
	Query   string `json:"query"`
	DocType string `json:"doc_type,omitempty"`
}

// searchResult は検索結果1件のレスポンス表現
type searchResult struct {
	ID         string  `json:"id"`
	Text       string  `json:"text"`
	Similarity float64 `json:"similarity"`
	DocType    string  `json:"doc_type"`
	SourceFile string  `json:"source_file"`
}

// searchResponse は POST /api/ai/search のレスポンスボディ
type searchResponse struct {
	Results []searchResult `json:"results"`
	Count   int            `json:"count"`
}

// errorResponse はエラー時の共通レスポンスボディ
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	result, err := s.service.ChatWithHistory(r.Context(), req.ConversationHistory, req.Message)
	if err != nil {
		s.logger.Error("chat request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate response")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Question:   result.Question,
		Response:   result.Response,
		NumSources: result.NumSources,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	docType := mo.None[document.DocType]()
	if req.DocType != "" {
		t := document.DocType(req.DocType)
		if !t.Valid() {
			writeError(w, http.StatusBadRequest, "unknown doc_type: "+req.DocType)
			return
		}
		docType = mo.Some(t)
	}

	matches := s.service.SearchKnowledgeBase(r.Context(), req.Query, docType)

	results := make([]searchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, toSearchResult(m))
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Results: results,
		Count:   len(results),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stats, err := s.service.Stats(r.Context())
	if err != nil {
		s.logger.Error("stats request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to collect stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// toSearchResult はドメインの検索結果をレスポンス表現に変換する
func toSearchResult(m retrieval.Match) searchResult {
	return searchResult{
		ID:         m.ID,
		Text:       m.Text,
		Similarity: m.Similarity,
		DocType:    string(m.Metadata.DocType()),
		SourceFile: m.Metadata.SourceFile(),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
