package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/feedback-service/internal/auth"
	"github.com/SAP-F-2025/feedback-service/internal/cache"
	"github.com/SAP-F-2025/feedback-service/internal/codec"
	"github.com/SAP-F-2025/feedback-service/internal/events"
	"github.com/SAP-F-2025/feedback-service/internal/models"
	"github.com/SAP-F-2025/feedback-service/internal/repositories"
	"github.com/SAP-F-2025/feedback-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/feedback-service/internal/testutil"
	"github.com/SAP-F-2025/feedback-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const (
	studentEmail = "student@uni.cl"
	adminEmail   = "admin@uni.cl"
)

type recordingMetrics struct {
	accepted, rejected int
	hits, misses       int
}

func (m *recordingMetrics) FeedbackSubmitted(accepted bool) {
	if accepted {
		m.accepted++
	} else {
		m.rejected++
	}
}

func (m *recordingMetrics) ResultsServed(fromCache bool) {
	if fromCache {
		m.hits++
	} else {
		m.misses++
	}
}

type testEnv struct {
	db        *gorm.DB
	manager   ServiceManager
	feedback  FeedbackService
	publisher *events.MockEventPublisher
	cache     cache.CacheService
	metrics   *recordingMetrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithRepo(t, nil)
}

// newTestEnvWithRepo lets wrap decorate the SQLite backed repository
func newTestEnvWithRepo(t *testing.T, wrap func(repositories.Repository) repositories.Repository) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	db := testutil.NewTestDB(t)
	publisher := events.NewMockEventPublisher(logger)
	memCache := cache.NewMemoryCache()
	metrics := &recordingMetrics{}

	var repo repositories.Repository = postgres.NewRepository(db)
	if wrap != nil {
		repo = wrap(repo)
	}

	manager := NewServiceManager(Dependencies{
		Repo:       repo,
		Cache:      memCache,
		Publisher:  publisher,
		Metrics:    metrics,
		Logger:     logger,
		Validator:  validator.New(),
		ResultsTTL: time.Minute,
	})

	return &testEnv{
		db:        db,
		manager:   manager,
		feedback:  manager.Feedback(),
		publisher: publisher,
		cache:     memCache,
		metrics:   metrics,
	}
}

func asStudent(email string) context.Context {
	return auth.WithUser(context.Background(), &models.User{Email: email, Role: models.RoleUser})
}

func asAdmin() context.Context {
	return auth.WithUser(context.Background(), &models.User{Email: adminEmail, Role: models.RoleAdmin})
}

// seedCourseForm creates form 1 with the single choice question 10
func seedCourseForm(t *testing.T, db *gorm.DB) {
	testutil.CreateForm(t, db, &models.FeedbackForm{ID: 1, Name: "Course", Priority: 5},
		testutil.ChoiceQuestion(10, models.QuestionSingleAnswer, "Did it help?", 1,
			codec.Option{Value: 1, Text: "Yes"}, codec.Option{Value: 2, Text: "No"}),
	)
}

func seedPlannerForm(t *testing.T, db *gorm.DB) {
	testutil.CreateForm(t, db, &models.FeedbackForm{ID: 2, Name: "Planner", Priority: 3},
		testutil.OpenTextQuestion(20, "What would you change?", 1),
		testutil.ChoiceQuestion(21, models.QuestionMultipleAnswer, "Which features do you use?", 4,
			codec.Option{Value: 1, Text: "Search"}, codec.Option{Value: 2, Text: "Export"}, codec.Option{Value: 3, Text: "Share"}),
		testutil.ChoiceQuestion(22, models.QuestionSingleAnswer, "Recommend?", 2,
			codec.Option{Value: 0, Text: "No"}, codec.Option{Value: 10, Text: "Yes"}),
	)
}

type answerRow struct {
	question uint
	priority int
	answer   string
}

func answerRows(answers []FeedbackAnswerResponse) []answerRow {
	rows := make([]answerRow, len(answers))
	for i, a := range answers {
		rows[i] = answerRow{a.Question.ID, a.Question.Priority, a.Answer}
	}
	return rows
}

// ===== FORM RESOLVER =====

func TestUnansweredForm_RequiresUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.feedback.UnansweredForm(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUnansweredForm_ReturnsHighestPriorityWithDecodedQuestions(t *testing.T) {
	env := newTestEnv(t)
	seedCourseForm(t, env.db)
	seedPlannerForm(t, env.db)

	form, err := env.feedback.UnansweredForm(asStudent(studentEmail))
	require.NoError(t, err)
	require.NotNil(t, form)
	assert.Equal(t, uint(1), form.ID)
	require.Len(t, form.Questions, 1)
	assert.Equal(t, []FeedbackQuestionOption{{Value: 1, Text: "Yes"}, {Value: 2, Text: "No"}}, form.Questions[0].Options)

	testutil.CreateAnswers(t, env.db, studentEmail, 1, testutil.Answer{Question: 10, Answer: "1"})

	form, err = env.feedback.UnansweredForm(asStudent(studentEmail))
	require.NoError(t, err)
	require.NotNil(t, form)
	assert.Equal(t, uint(2), form.ID)

	ids := []uint{form.Questions[0].ID, form.Questions[1].ID, form.Questions[2].ID}
	assert.Equal(t, []uint{21, 22, 20}, ids, "questions are ordered by priority descending")
	assert.Empty(t, form.Questions[2].Options)
}

func TestUnansweredForm_NeverReturnsAnsweredForm(t *testing.T) {
	env := newTestEnv(t)
	seedCourseForm(t, env.db)
	seedPlannerForm(t, env.db)

	testutil.CreateAnswers(t, env.db, studentEmail, 1, testutil.Answer{Question: 10, Answer: models.NoAnswer})
	testutil.CreateAnswers(t, env.db, studentEmail, 2, testutil.Answer{Question: 20, Answer: "x"})

	form, err := env.feedback.UnansweredForm(asStudent(studentEmail))
	require.NoError(t, err)
	assert.Nil(t, form)

	form, err = env.feedback.UnansweredForm(asStudent("other@uni.cl"))
	require.NoError(t, err)
	require.NotNil(t, form)
	assert.Equal(t, uint(1), form.ID)
}

func TestUnansweredForm_NoForms(t *testing.T) {
	env := newTestEnv(t)

	form, err := env.feedback.UnansweredForm(asStudent(studentEmail))
	require.NoError(t, err)
	assert.Nil(t, form)
}

// ===== ANSWER SUBMISSION =====

func TestAnswerFeedbackForm_RequiresUser(t *testing.T) {
	env := newTestEnv(t)
	seedCourseForm(t, env.db)

	ok, err := env.feedback.AnswerFeedbackForm(context.Background(), &FeedbackAnswerInput{Form: 1})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, ok)
	assert.Empty(t, testutil.Results(t, env.db))
}

func TestAnswerFeedbackForm_StoresValidChoice(t *testing.T) {
	env := newTestEnv(t)
	seedCourseForm(t, env.db)

	ok, err := env.feedback.AnswerFeedbackForm(asStudent(studentEmail), &FeedbackAnswerInput{
		Form:      1,
		Questions: []FeedbackQuestionAnswerInput{{Question: 10, Answer: "1"}},
	})
	require.NoError(t, err)
	assert.True(t, ok)

	results := testutil.Results(t, env.db)
	require.Len(t, results, 1)
	assert.Equal(t, uint(1), results[0].FormID)
	assert.Equal(t, uint(10), results[0].QuestionID)
	assert.Equal(t, studentEmail, results[0].UserID)
	assert.Equal(t, "1", results[0].Answer)

	entries, err := env.feedback.FeedbackResults(asAdmin())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, studentEmail, entries[0].User.Email)
	require.Len(t, entries[0].Answers, 1)
	assert.Equal(t, "1", entries[0].Answers[0].Answer)
	assert.Equal(t, FeedbackQuestionResponse{
		ID:       10,
		Question: "Did it help?",
		Type:     models.QuestionSingleAnswer,
		Priority: 1,
		Options:  []FeedbackQuestionOption{{Value: 1, Text: "Yes"}, {Value: 2, Text: "No"}},
	}, entries[0].Answers[0].Question)

	assert.Equal(t, 1, env.metrics.accepted)
	published := env.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventFeedbackSubmitted, published[0].Type)
	data, ok := published[0].Data.(events.FeedbackSubmittedEvent)
	require.True(t, ok)
	assert.Equal(t, 1, data.QuestionCount)
	assert.Equal(t, 1, data.AnsweredCount)
}

func TestAnswerFeedbackForm_InvalidChoiceStoresNoAnswer(t *testing.T) {
	env := newTestEnv(t)
	seedCourseForm(t, env.db)

	ok, err := env.feedback.AnswerFeedbackForm(asStudent(studentEmail), &FeedbackAnswerInput{
		Form:      1,
		Questions: []FeedbackQuestionAnswerInput{{Question: 10, Answer: "99"}},
	})
	require.NoError(t, err)
	assert.True(t, ok)

	results := testutil.Results(t, env.db)
	require.Len(t, results, 1)
	assert.Equal(t, models.NoAnswer, results[0].Answer)
}

func TestAnswerFeedbackForm_SingleAnswerStoredAsSubmitted(t *testing.T) {
	env := newTestEnv(t)
	seedCourseForm(t, env.db)

	ok, err := env.feedback.AnswerFeedbackForm(asStudent(studentEmail), &FeedbackAnswerInput{
		Form:      1,
		Questions: []FeedbackQuestionAnswerInput{{Question: 10, Answer: "1.5"}},
	})
	require.NoError(t, err)
	assert.True(t, ok)

	results := testutil.Results(t, env.db)
	require.Len(t, results, 1)
	assert.Equal(t, "1.5", results[0].Answer)

	entries, err := env.feedback.FeedbackResults(asAdmin())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	answer := entries[0].Answers[0]
	assert.Equal(t, "Yes", answer.Question.OptionText(answer.Answer))
}

func TestFeedbackQuestionResponse_OptionText(t *testing.T) {
	options := []FeedbackQuestionOption{{Value: 1, Text: "Yes"}, {Value: 2, Text: "No"}}
	single := FeedbackQuestionResponse{Type: models.QuestionSingleAnswer, Options: options}
	multiple := FeedbackQuestionResponse{Type: models.QuestionMultipleAnswer, Options: options}
	open := FeedbackQuestionResponse{Type: models.QuestionOpenText}

	assert.Equal(t, "No", single.OptionText("2"))
	assert.Equal(t, "Yes", single.OptionText(" 1.9 "))
	assert.Equal(t, "7", single.OptionText("7"))
	assert.Equal(t, models.NoAnswer, single.OptionText(models.NoAnswer))
	assert.Equal(t, "Yes|No", multiple.OptionText("1|2"))
	assert.Equal(t, "1|7", multiple.OptionText("1|7"))
	assert.Equal(t, "1|2", open.OptionText("1|2"))
}

func TestAnswerFeedbackForm_OneRowPerFormQuestion(t *testing.T) {
	env := newTestEnv(t)
	seedCourseForm(t, env.db)
	seedPlannerForm(t, env.db)

	ok, err := env.feedback.AnswerFeedbackForm(asStudent(studentEmail), &FeedbackAnswerInput{
		Form: 2,
		Questions: []FeedbackQuestionAnswerInput{
			{Question: 21, Answer: "1|3"},
			{Question: 10, Answer: "1"}, // belongs to another form
			{Question: 21, Answer: "2"}, // repeated question, first one wins
		},
	})
	require.NoError(t, err)
	require.True(t, ok)

	results := testutil.Results(t, env.db)
	require.Len(t, results, 3)

	byQuestion := make(map[uint]string)
	for _, r := range results {
		assert.Equal(t, uint(2), r.FormID)
		assert.Equal(t, studentEmail, r.UserID)
		byQuestion[r.QuestionID] = r.Answer
	}
	assert.Equal(t, map[uint]string{
		20: models.NoAnswer,
		21: "1|3",
		22: models.NoAnswer,
	}, byQuestion)

	var audits []models.AuditLog
	require.NoError(t, env.db.Find(&audits).Error)
	require.Len(t, audits, 1)
	assert.Equal(t, models.AuditFeedbackSubmitted, audits[0].EventType)
	assert.Equal(t, studentEmail, audits[0].UserEmail)
}

func TestAnswerFeedbackForm_OpenTextAndZeroValuedOption(t *testing.T) {
	env := newTestEnv(t)
	seedPlannerForm(t, env.db)

	ok, err := env.feedback.AnswerFeedbackForm(asStudent(studentEmail), &FeedbackAnswerInput{
		Form: 2,
		Questions: []FeedbackQuestionAnswerInput{
			{Question: 20, Answer: "More colors"},
			{Question: 21, Answer: "2|2"},
			{Question: 22, Answer: "0"},
		},
	})
	require.NoError(t, err)
	require.True(t, ok)

	byQuestion := make(map[uint]string)
	for _, r := range testutil.Results(t, env.db) {
		byQuestion[r.QuestionID] = r.Answer
	}
	assert.Equal(t, "More colors", byQuestion[20])
	assert.Equal(t, models.NoAnswer, byQuestion[21])
	assert.Equal(t, "0", byQuestion[22])
}

func TestAnswerFeedbackForm_RejectsWithoutWriting(t *testing.T) {
	tests := []struct {
		name  string
		input *FeedbackAnswerInput
	}{
		{"Unknown form", &FeedbackAnswerInput{Form: 404, Questions: []FeedbackQuestionAnswerInput{{Question: 10, Answer: "1"}}}},
		{"No questions", &FeedbackAnswerInput{Form: 1}},
		{"Unknown questions", &FeedbackAnswerInput{Form: 1, Questions: []FeedbackQuestionAnswerInput{{Question: 404, Answer: "1"}}}},
		{"Questions of another form", &FeedbackAnswerInput{Form: 1, Questions: []FeedbackQuestionAnswerInput{{Question: 20, Answer: "x"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			seedCourseForm(t, env.db)
			seedPlannerForm(t, env.db)

			ok, err := env.feedback.AnswerFeedbackForm(asStudent(studentEmail), tt.input)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, testutil.Results(t, env.db))
			assert.Empty(t, env.publisher.GetPublishedEvents())
			assert.Equal(t, 1, env.metrics.rejected)
		})
	}
}

func TestAnswerFeedbackForm_AtMostOncePerUser(t *testing.T) {
	env := newTestEnv(t)
	seedCourseForm(t, env.db)

	input := &FeedbackAnswerInput{Form: 1, Questions: []FeedbackQuestionAnswerInput{{Question: 10, Answer: "1"}}}

	ok, err := env.feedback.AnswerFeedbackForm(asStudent(studentEmail), input)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = env.feedback.AnswerFeedbackForm(asStudent(studentEmail), input)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, testutil.Results(t, env.db), 1)

	ok, err = env.feedback.AnswerFeedbackForm(asStudent("other@uni.cl"), input)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAnswerFeedbackForm_ValidatesInput(t *testing.T) {
	env := newTestEnv(t)
	seedPlannerForm(t, env.db)

	long := make([]byte, 4001)
	for i := range long {
		long[i] = 'a'
	}

	_, err := env.feedback.AnswerFeedbackForm(asStudent(studentEmail), &FeedbackAnswerInput{
		Form:      2,
		Questions: []FeedbackQuestionAnswerInput{{Question: 20, Answer: string(long)}},
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "questions[0].answer", verrs[0].Field)

	_, err = env.feedback.AnswerFeedbackForm(asStudent(studentEmail), nil)
	assert.True(t, IsValidation(err))
	assert.Empty(t, testutil.Results(t, env.db))
}

// ===== RESULTS AGGREGATION =====

func TestFeedbackResults_Guards(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.feedback.FeedbackResults(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.feedback.FeedbackResults(asStudent(studentEmail))
	assert.ErrorIs(t, err, ErrForbidden)

	var permErr *PermissionError
	assert.True(t, errors.As(err, &permErr))
}

func TestFeedbackResults_GroupsAndSorts(t *testing.T) {
	env := newTestEnv(t)
	seedCourseForm(t, env.db)
	seedPlannerForm(t, env.db)
	testutil.CreateForm(t, env.db, &models.FeedbackForm{ID: 3, Name: "Tie", Priority: 3},
		testutil.OpenTextQuestion(30, "Anything else?", 1))

	// Scan order: planner(a), course(a), tie(b), planner(b)
	testutil.CreateAnswers(t, env.db, "a@uni.cl", 2,
		testutil.Answer{Question: 20, Answer: "text"},
		testutil.Answer{Question: 21, Answer: "1|2"},
		testutil.Answer{Question: 22, Answer: "10"},
	)
	testutil.CreateAnswers(t, env.db, "a@uni.cl", 1, testutil.Answer{Question: 10, Answer: "2"})
	testutil.CreateAnswers(t, env.db, "b@uni.cl", 3, testutil.Answer{Question: 30, Answer: "no"})
	testutil.CreateAnswers(t, env.db, "b@uni.cl", 2,
		testutil.Answer{Question: 20, Answer: models.NoAnswer},
		testutil.Answer{Question: 10, Answer: "1"}, // question outside its form is dropped
	)
	// Result of a form that no longer exists is dropped
	testutil.CreateAnswers(t, env.db, "c@uni.cl", 9, testutil.Answer{Question: 90, Answer: "x"})

	entries, err := env.feedback.FeedbackResults(asAdmin())
	require.NoError(t, err)
	require.Len(t, entries, 4)

	type key struct {
		user string
		form uint
	}
	got := make([]key, len(entries))
	for i, e := range entries {
		got[i] = key{e.User.Email, e.Form.ID}
	}
	assert.Equal(t, []key{
		{"a@uni.cl", 1},
		{"a@uni.cl", 2},
		{"b@uni.cl", 3},
		{"b@uni.cl", 2},
	}, got, "sorted by form priority, ties keep scan order")

	planner := entries[1]
	assert.Equal(t, []answerRow{
		{21, 4, "1|2"},
		{22, 2, "10"},
		{20, 1, "text"},
	}, answerRows(planner.Answers))
	assert.Equal(t, "Which features do you use?", planner.Answers[0].Question.Question)
	assert.Equal(t, uint(21), planner.Form.Questions[0].ID)

	assert.Equal(t, []answerRow{{20, 1, models.NoAnswer}}, answerRows(entries[3].Answers))
}

func TestFeedbackResults_CachedUntilNextSubmission(t *testing.T) {
	env := newTestEnv(t)
	seedCourseForm(t, env.db)

	entries, err := env.feedback.FeedbackResults(asAdmin())
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = env.feedback.FeedbackResults(asAdmin())
	require.NoError(t, err)
	assert.Equal(t, 1, env.metrics.misses)
	assert.Equal(t, 1, env.metrics.hits)

	ok, err := env.feedback.AnswerFeedbackForm(asStudent(studentEmail), &FeedbackAnswerInput{
		Form:      1,
		Questions: []FeedbackQuestionAnswerInput{{Question: 10, Answer: "2"}},
	})
	require.NoError(t, err)
	require.True(t, ok)

	entries, err = env.feedback.FeedbackResults(asAdmin())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, env.metrics.misses)
}

// stalledResults holds the first List call after it has read the table until
// release is closed, so a report can be loaded across a submission
type stalledResults struct {
	repositories.FeedbackResultRepository
	once    sync.Once
	listed  chan struct{}
	release chan struct{}
}

func (r *stalledResults) List(ctx context.Context, tx *gorm.DB, filters repositories.FeedbackResultFilters) ([]*models.FeedbackResult, error) {
	results, err := r.FeedbackResultRepository.List(ctx, tx, filters)
	r.once.Do(func() {
		close(r.listed)
		<-r.release
	})
	return results, err
}

type stalledRepository struct {
	repositories.Repository
	results *stalledResults
}

func (r *stalledRepository) FeedbackResult() repositories.FeedbackResultRepository { return r.results }

func TestFeedbackResults_LoadRacingSubmissionIsNotServedStale(t *testing.T) {
	stalled := &stalledResults{listed: make(chan struct{}), release: make(chan struct{})}
	env := newTestEnvWithRepo(t, func(repo repositories.Repository) repositories.Repository {
		stalled.FeedbackResultRepository = repo.FeedbackResult()
		return &stalledRepository{Repository: repo, results: stalled}
	})
	seedCourseForm(t, env.db)

	type report struct {
		entries []FeedbackResultEntry
		err     error
	}
	loaded := make(chan report, 1)
	go func() {
		entries, err := env.feedback.FeedbackResults(asAdmin())
		loaded <- report{entries, err}
	}()

	<-stalled.listed
	ok, err := env.feedback.AnswerFeedbackForm(asStudent(studentEmail), &FeedbackAnswerInput{
		Form:      1,
		Questions: []FeedbackQuestionAnswerInput{{Question: 10, Answer: "1"}},
	})
	require.NoError(t, err)
	require.True(t, ok)
	close(stalled.release)

	// The racing load read the table before the commit
	stale := <-loaded
	require.NoError(t, stale.err)
	assert.Empty(t, stale.entries)

	entries, err := env.feedback.FeedbackResults(asAdmin())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, studentEmail, entries[0].User.Email)
	assert.Equal(t, "1", entries[0].Answers[0].Answer)
}

// ===== EXPORT =====

func TestRenderResultsWorkbook_ReadsQuestionFromAnswer(t *testing.T) {
	question := FeedbackQuestionResponse{
		ID:       10,
		Question: "Did it help?",
		Type:     models.QuestionSingleAnswer,
		Priority: 1,
		Options:  []FeedbackQuestionOption{{Value: 1, Text: "Yes"}},
	}
	// The form carries no questions; every column must come from the answer
	data, count, err := renderResultsWorkbook([]FeedbackResultEntry{{
		Form:    FeedbackFormResponse{ID: 1, Name: "Course", Priority: 5},
		Answers: []FeedbackAnswerResponse{{Question: question, Answer: "1"}},
		User:    PartialUser{Email: studentEmail},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{studentEmail, "Course", "5", "Did it help?", "SingleAnswer", "1", "1", "Yes"}, rows[1])
}

func TestExportFeedbackResults(t *testing.T) {
	env := newTestEnv(t)
	seedCourseForm(t, env.db)
	seedPlannerForm(t, env.db)
	testutil.CreateAnswers(t, env.db, "a@uni.cl", 2,
		testutil.Answer{Question: 21, Answer: "1|3"},
		testutil.Answer{Question: 20, Answer: "Nothing"},
		testutil.Answer{Question: 22, Answer: models.NoAnswer},
	)

	_, err := env.manager.Export().ExportFeedbackResults(asStudent(studentEmail))
	require.ErrorIs(t, err, ErrForbidden)

	data, err := env.manager.Export().ExportFeedbackResults(asAdmin())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "User", rows[0][0])
	assert.Equal(t, []string{"a@uni.cl", "Planner", "3", "Which features do you use?", "MultipleAnswer", "4", "1|3", "Search|Share"}, rows[1])
	assert.Equal(t, "-1", rows[2][6])
	assert.Equal(t, "Nothing", rows[3][7])

	var audit models.AuditLog
	require.NoError(t, env.db.Where("event_type = ?", models.AuditDataExported).First(&audit).Error)
	assert.Equal(t, adminEmail, audit.UserEmail)

	published := env.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventResultsExported, published[0].Type)
}
