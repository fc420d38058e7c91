package chunking

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/Kavirubc/simili-rca/pkg/models"
)

func chunkTypes(chunks []models.Chunk) []models.ChunkType {
	types := make([]models.ChunkType, len(chunks))
	for i, c := range chunks {
		types[i] = c.Type
	}
	return types
}

func TestCreateChunks_SummaryAndShortDescription(t *testing.T) {
	e := NewEngine(Options{})
	rec := &models.IssueRecord{
		Key:         "DEV-1",
		Summary:     "Login fails",
		Description: "Users cannot log in with valid credentials.",
	}

	chunks := e.CreateChunks(rec)

	want := []models.ChunkType{models.ChunkSummary, models.ChunkDescription}
	if got := chunkTypes(chunks); !reflect.DeepEqual(got, want) {
		t.Fatalf("CreateChunks() types = %v, want %v", got, want)
	}
	if chunks[0].Text != "Summary: Login fails" || chunks[0].Weight != 3.5 {
		t.Errorf("summary chunk = %+v", chunks[0])
	}
	if chunks[1].Text != "Description: Users cannot log in with valid credentials." || chunks[1].Weight != 2.5 {
		t.Errorf("description chunk = %+v", chunks[1])
	}
	if chunks[0].Language != models.LangEnglish {
		t.Errorf("summary language = %v, want en", chunks[0].Language)
	}
}

func TestCreateChunks_RootCauseWithoutSolution(t *testing.T) {
	e := NewEngine(Options{MaxChunkLength: 200})
	rec := &models.IssueRecord{
		Key: "DEV-2",
		Description: strings.Repeat("Users report that the login page hangs for a long time after submitting credentials. ", 3) +
			"The root cause: XYZ-token-expiry in the session validator that rejected every refreshed session.",
	}

	chunks := e.CreateChunks(rec)

	want := []models.ChunkType{models.ChunkRootCause}
	if got := chunkTypes(chunks); !reflect.DeepEqual(got, want) {
		t.Fatalf("CreateChunks() types = %v, want %v", got, want)
	}
	if !strings.HasPrefix(chunks[0].Text, "Root Cause: ") || !strings.Contains(chunks[0].Text, "XYZ-token-expiry") {
		t.Errorf("root cause chunk text = %q", chunks[0].Text)
	}
	if chunks[0].Weight != 3.0 {
		t.Errorf("root cause weight = %v, want 3.0", chunks[0].Weight)
	}
}

func TestCreateChunks_UzbekRootCause(t *testing.T) {
	e := NewEngine(Options{MaxChunkLength: 200})
	rec := &models.IssueRecord{
		Key: "DEV-3",
		Description: "Tizimga kirishda xatolik yuz berdi. Foydalanuvchi parolni kiritgandan keyin sahifa yangilanmaydi. " +
			"Muammoning sababi shundaki, sessiya tokeni muddati tugagan va server uni qayta yaratmagan. " +
			"Bu holat faqat mobil ilovada kuzatildi, veb versiyada hammasi to'g'ri ishlaydi.",
	}

	chunks := e.CreateChunks(rec)

	if len(chunks) != 1 || chunks[0].Type != models.ChunkRootCause {
		t.Fatalf("CreateChunks() types = %v, want [root_cause]", chunkTypes(chunks))
	}
	if !strings.Contains(chunks[0].Text, "sabab") {
		t.Errorf("root cause chunk text = %q, want it to contain 'sabab'", chunks[0].Text)
	}
	if chunks[0].Language != models.LangUzbek {
		t.Errorf("root cause language = %v, want uz", chunks[0].Language)
	}
}

func TestCreateChunks_KeyOnlyRecord(t *testing.T) {
	e := NewEngine(Options{})

	chunks := e.CreateChunks(&models.IssueRecord{Key: "X-1"})

	if len(chunks) != 1 {
		t.Fatalf("len(chunks) = %d, want 1", len(chunks))
	}
	c := chunks[0]
	if c.Type != models.ChunkMetadata || c.Weight != FallbackWeight || !strings.Contains(c.Text, "X-1") {
		t.Errorf("fallback chunk = %+v", c)
	}

	chunks = e.CreateChunks(&models.IssueRecord{})
	if len(chunks) != 1 || chunks[0].Text != "Issue Unknown: No content available" {
		t.Errorf("CreateChunks(empty) = %+v", chunks)
	}
}

func TestCreateChunks_ParagraphDecay(t *testing.T) {
	e := NewEngine(Options{MaxChunkLength: 200})
	rec := &models.IssueRecord{
		Description: "The export button on the reports page does nothing when the table contains more than one thousand rows.\n\n" +
			"Browser console shows a timeout from the reporting service and the spinner keeps turning forever.\n\n" +
			"Thanks.\n\n" +
			"Reproduced on staging with the quarterly sales report and on production with the yearly summary.",
	}

	chunks := e.CreateChunks(rec)

	wantWeights := []float64{2.5, 2.25, 1.75}
	wantParts := []string{"Description (part 1): ", "Description (part 2): ", "Description (part 4): "}
	if len(chunks) != len(wantWeights) {
		t.Fatalf("len(chunks) = %d, want %d: %+v", len(chunks), len(wantWeights), chunks)
	}
	for i, c := range chunks {
		if c.Type != models.ChunkDescription {
			t.Errorf("chunks[%d].Type = %v, want description", i, c.Type)
		}
		if math.Abs(c.Weight-wantWeights[i]) > 1e-9 {
			t.Errorf("chunks[%d].Weight = %v, want %v", i, c.Weight, wantWeights[i])
		}
		if !strings.HasPrefix(c.Text, wantParts[i]) {
			t.Errorf("chunks[%d].Text = %q, want prefix %q", i, c.Text, wantParts[i])
		}
	}
}

func TestCreateChunks_SentencePacking(t *testing.T) {
	e := NewEngine(Options{MaxChunkLength: 200})
	rec := &models.IssueRecord{
		Description: strings.Repeat("The report export stalls on large tables. ", 12),
	}

	chunks := e.CreateChunks(rec)

	if len(chunks) < 2 {
		t.Fatalf("len(chunks) = %d, want at least 2", len(chunks))
	}
	for i, c := range chunks {
		body := c.Text[strings.Index(c.Text, ": ")+2:]
		if n := len([]rune(body)); n > 200 {
			t.Errorf("chunks[%d] body length = %d, want <= 200", i, n)
		}
		if c.Weight <= 0 {
			t.Errorf("chunks[%d].Weight = %v, want positive", i, c.Weight)
		}
	}
}

func TestCreateChunks_DecayFloor(t *testing.T) {
	paragraphs := make([]string, 14)
	for i := range paragraphs {
		paragraphs[i] = "This paragraph describes one more step of the reproduction scenario."
	}
	e := NewEngine(Options{MaxChunkLength: 100})

	chunks := e.CreateChunks(&models.IssueRecord{Description: strings.Join(paragraphs, "\n\n")})

	if len(chunks) != 14 {
		t.Fatalf("len(chunks) = %d, want 14", len(chunks))
	}
	if last := chunks[13].Weight; math.Abs(last-0.25) > 1e-9 {
		t.Errorf("last weight = %v, want floor 0.25", last)
	}
}

func TestCreateChunks_Comments(t *testing.T) {
	e := NewEngine(Options{MaxChunkLength: 200})

	t.Run("root cause in comments", func(t *testing.T) {
		rec := &models.IssueRecord{
			Comments: "Checked the logs this morning. The problem was a stale cache entry in the session store " +
				"that survived the deploy and kept serving expired tokens to every mobile client.",
		}
		chunks := e.CreateChunks(rec)
		if len(chunks) != 1 || chunks[0].Type != models.ChunkRootCause {
			t.Fatalf("CreateChunks() types = %v, want [root_cause]", chunkTypes(chunks))
		}
		if !strings.HasPrefix(chunks[0].Text, "Comment - Root Cause: ") {
			t.Errorf("text = %q", chunks[0].Text)
		}
	})

	t.Run("plain comments are truncated", func(t *testing.T) {
		rec := &models.IssueRecord{Comments: strings.Repeat("looks good to me ", 30)}
		chunks := e.CreateChunks(rec)
		if len(chunks) != 1 || chunks[0].Type != models.ChunkComments {
			t.Fatalf("CreateChunks() types = %v, want [comments]", chunkTypes(chunks))
		}
		body := strings.TrimPrefix(chunks[0].Text, "Comments: ")
		if len([]rune(body)) != 200 {
			t.Errorf("comment body length = %d, want 200", len([]rune(body)))
		}
	})
}

func TestCreateChunks_ReturnReasonsAndHistory(t *testing.T) {
	e := NewEngine(Options{})
	rec := &models.IssueRecord{
		ReturnReasons: "Too short\nButton still does nothing on Safari\n\nWrong error message shown to users",
		StatusHistory: "Open -> In Progress\nIn Progress -> Testing\nTesting -> Returned\nReturned -> Done",
	}

	chunks := e.CreateChunks(rec)

	want := []models.ChunkType{models.ChunkReturnReasons, models.ChunkStatusHistory}
	if got := chunkTypes(chunks); !reflect.DeepEqual(got, want) {
		t.Fatalf("CreateChunks() types = %v, want %v", got, want)
	}
	if got := chunks[0].Text; got != "Return Reasons: Button still does nothing on Safari | Wrong error message shown to users" {
		t.Errorf("return reasons text = %q", got)
	}
	if got := chunks[1].Text; got != "Status History: In Progress - Testing | Testing - Returned | Returned - Done" {
		t.Errorf("status history text = %q", got)
	}
	if chunks[1].Language != models.LangMixed || chunks[1].Weight != 1.5 {
		t.Errorf("status history chunk = %+v", chunks[1])
	}
}

func TestCreateChunks_StatusHistoryKeepsTenTransitions(t *testing.T) {
	lines := make([]string, 12)
	for i := range lines {
		lines[i] = "In Progress -> Testing"
	}
	e := NewEngine(Options{})

	chunks := e.CreateChunks(&models.IssueRecord{StatusHistory: strings.Join(lines, "\n")})

	if n := strings.Count(chunks[0].Text, "Testing"); n != 10 {
		t.Errorf("transitions kept = %d, want 10", n)
	}
}

func TestCreateChunks_Metadata(t *testing.T) {
	e := NewEngine(Options{})
	rec := &models.IssueRecord{
		Type:        "Bug",
		Priority:    "High",
		Components:  []string{"auth", "web"},
		Assignee:    "Unassigned",
		Reporter:    "qa.lead",
		StoryPoints: 3,
		ReturnCount: 2,
		PRStatus:    "MERGED",
	}

	chunks := e.CreateChunks(rec)

	if len(chunks) != 1 {
		t.Fatalf("len(chunks) = %d, want 1", len(chunks))
	}
	want := "Type: Bug | Priority: High | Components: auth, web | Reporter: qa.lead | Story Points: 3 | Return Count: 2 | PR Status: MERGED"
	if chunks[0].Text != want {
		t.Errorf("metadata text = %q, want %q", chunks[0].Text, want)
	}
	if chunks[0].Type != models.ChunkMetadata || chunks[0].Weight != 1.0 || chunks[0].Language != models.LangMixed {
		t.Errorf("metadata chunk = %+v", chunks[0])
	}
}

func TestCreateChunks_Properties(t *testing.T) {
	e := NewEngine(Options{MaxChunkLength: 150})
	records := []*models.IssueRecord{
		{Key: "A-1"},
		{Key: "A-2", Summary: "!!!"},
		{Key: "A-3", Summary: "Ошибка входа", Description: strings.Repeat("Пользователь видит пустую страницу. ", 10)},
		{Key: "A-4", StatusHistory: "short"},
		{Key: "A-5", ReturnReasons: "tiny", Labels: []string{"ui"}},
	}

	for _, rec := range records {
		t.Run(rec.Key, func(t *testing.T) {
			first := e.CreateChunks(rec)
			second := e.CreateChunks(rec)

			if len(first) == 0 {
				t.Fatal("CreateChunks() returned no chunks")
			}
			if !reflect.DeepEqual(first, second) {
				t.Errorf("CreateChunks() not deterministic")
			}
			for _, c := range first {
				if c.Weight <= 0 || !c.Type.Valid() {
					t.Errorf("invalid chunk %+v", c)
				}
			}
		})
	}
}

func TestNewEngine_WeightOverrides(t *testing.T) {
	e := NewEngine(Options{Weights: Weights{Summary: 5}})

	if e.Weights().Summary != 5 {
		t.Errorf("Summary weight = %v, want 5", e.Weights().Summary)
	}
	if e.Weights().Description != 2.5 {
		t.Errorf("Description weight = %v, want default 2.5", e.Weights().Description)
	}
	if e.MaxChunkLength() != DefaultMaxChunkLength {
		t.Errorf("MaxChunkLength() = %d, want %d", e.MaxChunkLength(), DefaultMaxChunkLength)
	}

	chunks := e.CreateChunks(&models.IssueRecord{Summary: "Login fails"})
	if chunks[0].Weight != 5 {
		t.Errorf("summary chunk weight = %v, want 5", chunks[0].Weight)
	}
}
