package graphql

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func post(t *testing.T, handler http.Handler, req GraphQLRequest) (*httptest.ResponseRecorder, GraphQLResponse) {
	t.Helper()
	body, _ := json.Marshal(req)
	r := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, r)

	var response GraphQLResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	return rr, response
}

func TestGraphQLHTTPHandler(t *testing.T) {
	handler := NewGraphQLHandler(mustSchema(t), nil)

	rr, response := post(t, handler, GraphQLRequest{Query: `{ health }`})
	if rr.Code != http.StatusOK {
		t.Errorf("Handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
	if len(response.Errors) > 0 {
		t.Errorf("Response has errors: %v", response.Errors)
	}
	if response.Data == nil {
		t.Error("Response data is nil")
	}
}

func TestGraphQLHTTPHandlerWithVariables(t *testing.T) {
	handler := NewGraphQLHandler(mustSchema(t), nil)

	_, response := post(t, handler, GraphQLRequest{
		Query: `query Hops($from: String!, $to: String!) {
			distance(from: $from, to: $to)
		}`,
		Variables: map[string]any{"from": "a", "to": "c"},
	})
	if len(response.Errors) > 0 {
		t.Fatalf("Response has errors: %v", response.Errors)
	}
	data := response.Data.(map[string]any)
	if data["distance"] != float64(2) {
		t.Errorf("Expected distance 2, got %v", data["distance"])
	}
}

func TestGraphQLHTTPHandlerDepthLimit(t *testing.T) {
	handler := NewGraphQLHandler(mustSchema(t), nil).WithMaxDepth(1)

	_, response := post(t, handler, GraphQLRequest{Query: `{ constellation { nodes { id } } }`})
	if len(response.Errors) == 0 {
		t.Error("Expected depth error")
	}
}

func TestGraphQLHTTPHandlerMethods(t *testing.T) {
	handler := NewGraphQLHandler(mustSchema(t), nil)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/graphql", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/graphql", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200 for OPTIONS, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader([]byte("{"))))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad JSON, got %d", rr.Code)
	}
}
