package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Artixsss/MVDProject/internal/logger"
	"github.com/Artixsss/MVDProject/internal/models"
)

// Verdict структурированный результат AI-анализа обращения.
type Verdict struct {
	Category        string `json:"category"`
	Summary         string `json:"summary"`
	Sentiment       string `json:"sentiment"`
	Priority        string `json:"priority"`
	SuggestedAction string `json:"suggestedAction"`
}

// analyzePrompt просит модель отнести заявление к одной из фиксированных категорий.
const analyzePrompt = `Проанализируй текст заявления в МВД. Определи категорию и верни JSON.

Текст: "%s"

ВАЖНО - ПРАВИЛА КАТЕГОРИЗАЦИИ:
1. Выбери ОДНУ категорию из списка ниже
2. "Другое" - ТОЛЬКО для запросов информации/консультаций/документов (НЕ преступления)
3. Если описано преступление/нарушение - ОБЯЗАТЕЛЬНО выбери соответствующую категорию
4. Анализируй ПО СМЫСЛУ, а не по ключевым словам

КАТЕГОРИИ (выбери точное название):
1. "Имущественные преступления" - кражи, грабежи, мошенничество, угон, порча имущества
2. "Транспорт и ПДД" - ДТП, нарушения ПДД, парковка, проблемы на дороге
3. "Общественный порядок" - хулиганство, драки, шум, беспорядки, вандализм
4. "Бытовые конфликты" - семейные ссоры, соседские споры, бытовое насилие
5. "Угрозы и безопасность" - угрозы, насилие, вымогательство, нападение
6. "Киберпреступления" - интернет-мошенничество, взлом, кража данных
7. "Наркотики" - оборот, торговля, употребление наркотиков
8. "Экология и животные" - жестокость к животным, экологические нарушения
9. "Пропавшие люди" - розыск, поиск пропавших
10. "Другое" - запросы документов/информации, консультации, вопросы о законах

Приоритет:
- "Высокий" - угроза жизни, насилие, тяжкие преступления
- "Средний" - кражи, мошенничество, ДТП, конфликты
- "Низкий" - шум, парковка, консультации

Верни JSON (без markdown):
{
    "category": "точное название из списка",
    "summary": "краткое резюме",
    "sentiment": "Негативный/Нейтральный/Положительный",
    "priority": "Высокий/Средний/Низкий",
    "suggestedAction": "действия сотрудника"
}`

// detectDistrictPrompt просит модель назвать район из закрытого списка.
const detectDistrictPrompt = `Определи район Новосибирска для адреса: "%s"

Районы: Центральный, Железнодорожный, Заельцовский, Калининский, Кировский,
Ленинский, Октябрьский, Первомайский, Советский, Дзержинский

Верни ТОЛЬКО название района. Если не уверен - верни "Не определен".`

// generateResponsePrompt просит модель составить официальный ответ гражданину.
const generateResponsePrompt = `Сгенерируй официальный ответ гражданину на его заявление в МВД.
Текст заявления: "%s"
Ответ должен быть:
- Официальным, но вежливым
- Кратким (3-4 предложения)
- Содержать информацию о принятых мерах
- Указывать сроки рассмотрения (5-10 дней)
Верни только текст ответа без комментариев.`

// fallbackReply канонический ответ, когда генерация недоступна.
const fallbackReply = "Ваше обращение принято к рассмотрению. Срок рассмотрения - 10 рабочих дней."

// AnalyzeRequest классифицирует текст заявления. Наружу никогда не возвращает
// ошибку: любой сбой транспорта или парсинга схлопывается в запасной вердикт.
func (c *Client) AnalyzeRequest(ctx context.Context, description string) *Verdict {
	raw, err := c.chatCompletion(ctx, userMessage(fmt.Sprintf(analyzePrompt, description)), 1024, 0.3)
	if err != nil {
		if logger.Log != nil {
			logger.Log.WithField("error", err.Error()).Warn("ai: анализ недоступен, возвращаем запасной вердикт")
		}
		return FallbackVerdict()
	}

	verdict, ok := parseVerdict(raw)
	if !ok {
		if logger.Log != nil {
			logger.Log.WithField("raw", truncate(raw, 300)).Warn("ai: не удалось извлечь JSON из ответа модели")
		}
		return FallbackVerdict()
	}

	return verdict
}

// DetectDistrict определяет район по адресу. При любой ошибке возвращает
// сентинел "Не определен".
func (c *Client) DetectDistrict(ctx context.Context, address string) string {
	raw, err := c.chatCompletion(ctx, userMessage(fmt.Sprintf(detectDistrictPrompt, address)), 50, 0.1)
	if err != nil {
		if logger.Log != nil {
			logger.Log.WithField("error", err.Error()).Warn("ai: определение района недоступно")
		}
		return models.DistrictUnknown
	}

	name := strings.TrimSpace(raw)
	if name == "" {
		return models.DistrictUnknown
	}
	return name
}

// GenerateCitizenResponse формирует официальный ответ гражданину.
func (c *Client) GenerateCitizenResponse(ctx context.Context, requestText string) string {
	raw, err := c.chatCompletion(ctx, userMessage(fmt.Sprintf(generateResponsePrompt, requestText)), 512, 0.7)
	if err != nil || strings.TrimSpace(raw) == "" {
		return fallbackReply
	}
	return strings.TrimSpace(raw)
}

// FallbackVerdict детерминированный вердикт на случай недоступности модели.
func FallbackVerdict() *Verdict {
	return &Verdict{
		Category:        models.CategoryOther,
		Summary:         "Автоматический анализ не выполнен. Требуется ручная обработка.",
		Sentiment:       models.SentimentNeutral,
		Priority:        models.PriorityMedium,
		SuggestedAction: "Назначить сотрудника для ручной обработки заявления.",
	}
}

// parseVerdict извлекает первый сбалансированный JSON-объект из текста модели
// (модель может обернуть его прозой или markdown) и декодирует его.
func parseVerdict(text string) (*Verdict, bool) {
	jsonStr, ok := extractJSONObject(text)
	if !ok {
		return nil, false
	}

	var verdict Verdict
	if err := json.Unmarshal([]byte(jsonStr), &verdict); err != nil {
		return nil, false
	}

	// Вердикт всегда полный: пропущенные моделью поля добиваются
	// значениями резервного вердикта.
	fallback := FallbackVerdict()
	if verdict.Category == "" {
		verdict.Category = fallback.Category
	}
	if verdict.Priority == "" {
		verdict.Priority = fallback.Priority
	}
	if verdict.Sentiment == "" {
		verdict.Sentiment = fallback.Sentiment
	}
	if verdict.Summary == "" {
		verdict.Summary = fallback.Summary
	}
	if verdict.SuggestedAction == "" {
		verdict.SuggestedAction = fallback.SuggestedAction
	}

	return &verdict, true
}

// extractJSONObject возвращает первый сбалансированный {...} фрагмент текста.
// Учитывает строки и экранирование, чтобы скобка внутри строки не ломала баланс.
func extractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		ch := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}

// truncate обрезает строку для логов.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
