package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexusboard/application/board"
	"nexusboard/application/ports"
	"nexusboard/domain/core/entities"
	apperrors "nexusboard/pkg/errors"
)

func TestLoginStoresToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sam@example.com", body["email"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"user":    map[string]string{"id": "u1", "email": "sam@example.com", "token": "tok-123"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	user, err := client.Login(context.Background(), "sam@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", user.Token)
	assert.Equal(t, "tok-123", client.bearer())
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "projects": []Project{}})
	}))
	defer server.Close()

	client := NewClient(server.URL, WithToken("tok-abc"))
	_, err := client.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
}

func TestSuccessFalseIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "invalid credentials"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Login(context.Background(), "sam@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
}

func TestConnectionFailureIsNetworkError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	_, err := client.ListProjects(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNetwork))
}

func TestSaveAndLoadProjectState(t *testing.T) {
	var saved board.Snapshot
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/project-state/save":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&saved))
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
		case "/api/project-state/load/p1":
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "state": saved})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	snap := board.Snapshot{
		Nodes:     []entities.Node{{ID: "n1", Type: entities.TypeDefault, Data: entities.NodeData{Label: "Cell"}}},
		ProjectID: "p1",
	}
	require.NoError(t, client.SaveProjectState(context.Background(), snap))

	loaded, found, err := client.LoadProjectState(context.Background(), "p1")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, loaded.Nodes, 1)
	assert.Equal(t, "Cell", loaded.Nodes[0].Data.Label)
}

func TestLoadProjectStateNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "no state"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, found, err := client.LoadProjectState(context.Background(), "p1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestImportFileMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/import-file", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "notes", r.FormValue("file_type"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "chapter1.txt", header.Filename)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":               true,
			"file_id":               "f1",
			"database_record_id":    7,
			"storage_type":          "database",
			"extracted_text":        "term: definition",
			"extracted_text_length": 16,
			"structured_items":      map[string]int{"terms": 1, "definitions": 1},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.ImportFile(context.Background(), ports.FileUpload{
		Name:     "chapter1.txt",
		FileType: "notes",
		Content:  []byte("term: definition"),
	})
	require.NoError(t, err)
	assert.Equal(t, "f1", result.FileID)
	assert.Equal(t, int64(7), result.DatabaseRecordID)
	assert.Equal(t, 16, result.ExtractedTextLength)
	assert.Equal(t, 1, result.StructuredItems.Terms)
}
