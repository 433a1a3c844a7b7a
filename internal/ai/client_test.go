package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Artixsss/MVDProject/internal/models"
)

// newChatServer поднимает тестовый chat/completions, отдающий content как есть.
func newChatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestAnalyzeRequest_ParsesCleanJSON(t *testing.T) {
	srv := newChatServer(t, `{"category":"Имущественные преступления","summary":"Кража из квартиры","sentiment":"Негативный","priority":"Высокий","suggestedAction":"Направить следственную группу"}`)
	defer srv.Close()

	client := NewClient(srv.URL, "test-model", "test-key", 5*time.Second)
	verdict := client.AnalyzeRequest(context.Background(), "Меня ограбили, вынесли технику из квартиры")

	require.NotNil(t, verdict)
	assert.Equal(t, "Имущественные преступления", verdict.Category)
	assert.Equal(t, "Высокий", verdict.Priority)
	assert.Equal(t, "Негативный", verdict.Sentiment)
	assert.NotEmpty(t, verdict.Summary)
	assert.NotEmpty(t, verdict.SuggestedAction)
}

func TestAnalyzeRequest_ExtractsJSONFromMarkdown(t *testing.T) {
	content := "Вот результат анализа:\n```json\n{\"category\": \"Транспорт и ПДД\", \"summary\": \"ДТП на перекрёстке\", \"sentiment\": \"Нейтральный\", \"priority\": \"Средний\", \"suggestedAction\": \"Оформить протокол\"}\n```\nНадеюсь, это поможет."
	srv := newChatServer(t, content)
	defer srv.Close()

	client := NewClient(srv.URL, "test-model", "test-key", 5*time.Second)
	verdict := client.AnalyzeRequest(context.Background(), "Произошло ДТП")

	require.NotNil(t, verdict)
	assert.Equal(t, "Транспорт и ПДД", verdict.Category)
	assert.Equal(t, "ДТП на перекрёстке", verdict.Summary)
}

func TestAnalyzeRequest_CaseInsensitiveFields(t *testing.T) {
	srv := newChatServer(t, `{"Category":"Наркотики","Summary":"Сбыт во дворе","Sentiment":"Негативный","Priority":"Высокий","SuggestedAction":"Передать в ОНК"}`)
	defer srv.Close()

	client := NewClient(srv.URL, "test-model", "test-key", 5*time.Second)
	verdict := client.AnalyzeRequest(context.Background(), "Во дворе продают наркотики")

	require.NotNil(t, verdict)
	assert.Equal(t, "Наркотики", verdict.Category)
}

func TestAnalyzeRequest_PartialJSONCompleted(t *testing.T) {
	srv := newChatServer(t, `{"category":"Наркотики"}`)
	defer srv.Close()

	client := NewClient(srv.URL, "test-model", "test-key", 5*time.Second)
	verdict := client.AnalyzeRequest(context.Background(), "Во дворе продают наркотики")

	// Частичный ответ модели добивается до полного вердикта.
	require.NotNil(t, verdict)
	assert.Equal(t, "Наркотики", verdict.Category)
	assert.Equal(t, models.PriorityMedium, verdict.Priority)
	assert.Equal(t, models.SentimentNeutral, verdict.Sentiment)
	assert.NotEmpty(t, verdict.Summary)
	assert.NotEmpty(t, verdict.SuggestedAction)
}

func TestAnalyzeRequest_GarbageResponseFallsBack(t *testing.T) {
	srv := newChatServer(t, "Извините, я не могу выполнить этот запрос.")
	defer srv.Close()

	client := NewClient(srv.URL, "test-model", "test-key", 5*time.Second)
	verdict := client.AnalyzeRequest(context.Background(), "любой текст")

	require.NotNil(t, verdict)
	assert.Equal(t, models.CategoryOther, verdict.Category)
	assert.Equal(t, models.PriorityMedium, verdict.Priority)
	assert.Equal(t, models.SentimentNeutral, verdict.Sentiment)
	assert.NotEmpty(t, verdict.Summary)
	assert.NotEmpty(t, verdict.SuggestedAction)
}

func TestAnalyzeRequest_ServerErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-model", "test-key", 5*time.Second)
	verdict := client.AnalyzeRequest(context.Background(), "текст")

	require.NotNil(t, verdict)
	assert.Equal(t, models.CategoryOther, verdict.Category)
}

func TestAnalyzeRequest_NoAPIKeyFallsBack(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "test-model", "", time.Second)
	verdict := client.AnalyzeRequest(context.Background(), "текст")

	require.NotNil(t, verdict)
	assert.Equal(t, models.CategoryOther, verdict.Category)
}

func TestDetectDistrict_ReturnsTrimmedName(t *testing.T) {
	srv := newChatServer(t, "  Центральный\n")
	defer srv.Close()

	client := NewClient(srv.URL, "test-model", "test-key", 5*time.Second)
	district := client.DetectDistrict(context.Background(), "Красный проспект, 1")

	assert.Equal(t, "Центральный", district)
}

func TestDetectDistrict_ErrorReturnsSentinel(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "test-model", "test-key", 500*time.Millisecond)
	district := client.DetectDistrict(context.Background(), "где-то")

	assert.Equal(t, models.DistrictUnknown, district)
}

func TestGenerateCitizenResponse_FallbackOnError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "test-model", "test-key", 500*time.Millisecond)
	reply := client.GenerateCitizenResponse(context.Background(), "текст заявления")

	assert.Equal(t, fallbackReply, reply)
}

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
		ok   bool
	}{
		{"чистый объект", `{"a":1}`, `{"a":1}`, true},
		{"проза вокруг", `результат: {"a":1} конец`, `{"a":1}`, true},
		{"вложенность", `{"a":{"b":2}}`, `{"a":{"b":2}}`, true},
		{"скобка в строке", `{"a":"}"}`, `{"a":"}"}`, true},
		{"незакрытый", `{"a":1`, "", false},
		{"без объекта", `просто текст`, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := extractJSONObject(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.out, got)
		})
	}
}
