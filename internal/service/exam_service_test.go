package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"exam-mixer/internal/cache"
	"exam-mixer/internal/config"
	"exam-mixer/internal/domain"
	"exam-mixer/internal/dto"
	"exam-mixer/internal/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Env: "test", Level: "error"}); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}
	exitVal := m.Run()
	_ = logger.Sync()
	os.Exit(exitVal)
}

const testBankID = "01J9Z3M8Q4V6W7X8Y9Z0A1B2C3"

var sampleDocument = []byte(strings.Join([]string{
	"ĐỀ CƯƠNG ÔN TẬP MẠNG MÁY TÍNH",
	"Câu 1: Thủ đô của Việt Nam là gì? [Dễ] [LT]",
	"A. Hà Nội",
	"B. Huế",
	"Đáp án: A",
	"Câu 2: 2 + 2 bằng mấy? [Khó] [TT]",
	"A. 3",
	"*B. 4",
	"Câu 3: Giao thức nào hoạt động ở tầng vận chuyển?",
	"A. HTTP",
	"B. TCP",
}, "\n"))

func testConfig() *config.Config {
	return &config.Config{
		Generation: config.GenerationConfig{
			Versions:            3,
			QuestionsPerVersion: 2,
			TheoryRatio:         0.5,
			EasyPercent:         40,
			MediumPercent:       40,
			HardPercent:         20,
			Seed:                7,
		},
		AnswerKey: config.AnswerKeyConfig{Concurrency: 2},
		CacheTTLs: config.CacheTTLConfig{Package: "30m", QuestionBank: "10m"},
	}
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{Text: "Thủ đô?", Options: map[string]string{"A": "Hà Nội", "B": "Huế"}, Correct: "A", Difficulty: domain.Easy, Topic: domain.Theory},
		{Text: "2 + 2?", Options: map[string]string{"A": "3", "B": "4"}, Correct: "B", Difficulty: domain.Hard, Topic: domain.Practice},
		{Text: "Tầng vận chuyển?", Options: map[string]string{"A": "HTTP", "B": "TCP"}},
	}
}

func sampleBank() *domain.QuestionBank {
	bank := domain.NewQuestionBank("de.txt", sampleQuestions())
	bank.ID = testBankID
	return bank
}

func zipEntries(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = string(body)
	}
	return out
}

func TestImportDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := new(MockQuestionBankRepository)
		mc := new(MockCache)
		repo.On("Save", ctx, mock.AnythingOfType("*domain.QuestionBank")).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.QuestionBank).ID = testBankID }).
			Return(nil)
		mc.On("Set", mock.Anything, cache.BankKey(testBankID), mock.AnythingOfType("string"), 10*time.Minute).Return(nil)

		svc := NewExamService(repo, mc, nil, testConfig())
		resp, err := svc.ImportDocument(ctx, "de.txt", sampleDocument)
		require.NoError(t, err)

		assert.Equal(t, testBankID, resp.ID)
		assert.Equal(t, "de.txt", resp.SourceName)
		assert.Equal(t, 3, resp.QuestionCount)
		assert.Empty(t, resp.Warnings)
		require.NotNil(t, resp.Breakdown)
		assert.Equal(t, 1, resp.Breakdown.Theory.Easy)
		assert.Equal(t, 1, resp.Breakdown.Practice.Hard)
		assert.Equal(t, 1, resp.Breakdown.Uncategorized)
		repo.AssertExpectations(t)
		mc.AssertExpectations(t)
	})

	t.Run("no questions", func(t *testing.T) {
		repo := new(MockQuestionBankRepository)
		svc := NewExamService(repo, nil, nil, testConfig())

		_, err := svc.ImportDocument(ctx, "notes.txt", []byte("chỉ là ghi chú\nkhông có câu hỏi"))
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, domain.CodeNoQuestions))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unsupported file", func(t *testing.T) {
		svc := NewExamService(new(MockQuestionBankRepository), nil, nil, testConfig())
		_, err := svc.ImportDocument(ctx, "de.pdf", sampleDocument)
		assert.True(t, domain.IsInvalidArgument(err))
	})

	t.Run("save failure", func(t *testing.T) {
		repo := new(MockQuestionBankRepository)
		repo.On("Save", ctx, mock.Anything).Return(errors.New("disk full"))
		svc := NewExamService(repo, nil, nil, testConfig())

		_, err := svc.ImportDocument(ctx, "de.txt", sampleDocument)
		assert.True(t, domain.HasCode(err, domain.CodeInternal))
	})
}

func TestGetQuestionBank(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit", func(t *testing.T) {
		repo := new(MockQuestionBankRepository)
		mc := new(MockCache)
		raw, err := json.Marshal(sampleBank())
		require.NoError(t, err)
		mc.On("Get", ctx, cache.BankKey(testBankID)).Return(string(raw), nil)

		resp, err := NewExamService(repo, mc, nil, testConfig()).GetQuestionBank(ctx, testBankID)
		require.NoError(t, err)
		assert.Equal(t, testBankID, resp.ID)
		assert.Equal(t, 3, resp.QuestionCount)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("cache miss loads and caches", func(t *testing.T) {
		repo := new(MockQuestionBankRepository)
		mc := new(MockCache)
		mc.On("Get", ctx, cache.BankKey(testBankID)).Return("", domain.ErrCacheMiss)
		repo.On("GetByID", mock.Anything, testBankID).Return(sampleBank(), nil)
		mc.On("Set", mock.Anything, cache.BankKey(testBankID), mock.AnythingOfType("string"), 10*time.Minute).Return(nil)

		resp, err := NewExamService(repo, mc, nil, testConfig()).GetQuestionBank(ctx, testBankID)
		require.NoError(t, err)
		assert.Equal(t, "de.txt", resp.SourceName)
		repo.AssertExpectations(t)
		mc.AssertExpectations(t)
	})

	t.Run("cache failure falls back to store", func(t *testing.T) {
		repo := new(MockQuestionBankRepository)
		mc := new(MockCache)
		mc.On("Get", ctx, cache.BankKey(testBankID)).Return("", errors.New("connection refused"))
		repo.On("GetByID", mock.Anything, testBankID).Return(sampleBank(), nil)
		mc.On("Set", mock.Anything, cache.BankKey(testBankID), mock.Anything, mock.Anything).Return(errors.New("connection refused"))

		_, err := NewExamService(repo, mc, nil, testConfig()).GetQuestionBank(ctx, testBankID)
		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockQuestionBankRepository)
		repo.On("GetByID", mock.Anything, testBankID).Return(nil, nil)

		_, err := NewExamService(repo, nil, nil, testConfig()).GetQuestionBank(ctx, testBankID)
		assert.True(t, domain.HasCode(err, domain.CodeNotFound))
	})

	t.Run("store failure", func(t *testing.T) {
		repo := new(MockQuestionBankRepository)
		repo.On("GetByID", mock.Anything, testBankID).Return(nil, errors.New("ORA-12541"))

		_, err := NewExamService(repo, nil, nil, testConfig()).GetQuestionBank(ctx, testBankID)
		assert.True(t, domain.HasCode(err, domain.CodeInternal))
	})
}

func TestGetQuestionBank_CallerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := new(MockQuestionBankRepository)
	repo.On("GetByID", mock.Anything, testBankID).Return(sampleBank(), nil).
		Run(func(args mock.Arguments) {
			assert.NoError(t, args.Get(0).(context.Context).Err())
		})

	resp, err := NewExamService(repo, nil, nil, testConfig()).GetQuestionBank(ctx, testBankID)
	require.NoError(t, err)
	assert.Equal(t, testBankID, resp.ID)
	repo.AssertExpectations(t)
}

func TestListQuestionBanks(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuestionBankRepository)
	summary := &domain.QuestionBank{ID: testBankID, SourceName: "de.txt", QuestionCount: 12}
	repo.On("List", ctx, 20).Return([]*domain.QuestionBank{summary}, nil)

	resp, err := NewExamService(repo, nil, nil, testConfig()).ListQuestionBanks(ctx, 20)
	require.NoError(t, err)
	require.Len(t, resp.Banks, 1)
	assert.Equal(t, 12, resp.Banks[0].QuestionCount)
	assert.Nil(t, resp.Banks[0].Breakdown)

	repo.On("List", ctx, 5).Return(nil, errors.New("timeout"))
	_, err = NewExamService(repo, nil, nil, testConfig()).ListQuestionBanks(ctx, 5)
	assert.True(t, domain.HasCode(err, domain.CodeInternal))
}

func TestDeleteQuestionBank(t *testing.T) {
	ctx := context.Background()

	t.Run("evicts the cached bank", func(t *testing.T) {
		repo := new(MockQuestionBankRepository)
		mc := new(MockCache)
		repo.On("Delete", ctx, testBankID).Return(nil)
		mc.On("Delete", ctx, cache.BankKey(testBankID)).Return(errors.New("redis down"))

		err := NewExamService(repo, mc, nil, testConfig()).DeleteQuestionBank(ctx, testBankID)
		require.NoError(t, err, "cache eviction failures are logged only")
		repo.AssertExpectations(t)
		mc.AssertExpectations(t)
	})

	t.Run("store error", func(t *testing.T) {
		repo := new(MockQuestionBankRepository)
		repo.On("Delete", ctx, testBankID).Return(errors.New("locked"))

		err := NewExamService(repo, nil, nil, testConfig()).DeleteQuestionBank(ctx, testBankID)
		assert.True(t, domain.HasCode(err, domain.CodeInternal))
	})
}

func TestGenerateExams(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuestionBankRepository)
	mc := new(MockCache)
	mc.On("Get", ctx, cache.BankKey(testBankID)).Return("", domain.ErrCacheMiss)
	repo.On("GetByID", mock.Anything, testBankID).Return(sampleBank(), nil)
	mc.On("Set", mock.Anything, cache.BankKey(testBankID), mock.Anything, mock.Anything).Return(nil)

	var stored string
	isPackageKey := mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, cache.GenerateCacheKey("exam", "package", ""))
	})
	mc.On("Set", ctx, isPackageKey, mock.AnythingOfType("string"), 30*time.Minute).
		Run(func(args mock.Arguments) { stored = args.String(2) }).
		Return(nil)

	versions := 2
	req := &dto.GenerateExamRequest{
		BankID:       testBankID,
		ExamSettings: dto.ExamSettings{NumVersions: &versions, IncludeStatistics: true},
	}
	resp, err := NewExamService(repo, mc, nil, testConfig()).GenerateExams(ctx, req)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, testBankID, resp.BankID)
	require.Len(t, resp.Versions, 2)
	for i, v := range resp.Versions {
		assert.Equal(t, i+1, v.Number)
		assert.Equal(t, 2, v.Stats.TotalQuestions)
	}
	require.NotNil(t, resp.ExpiresAt)
	assert.Equal(t, resp.CreatedAt.Add(30*time.Minute), *resp.ExpiresAt)

	entries := zipEntries(t, []byte(stored))
	assert.Len(t, entries, len(resp.Files))
	for _, name := range resp.Files {
		assert.Contains(t, entries, name)
	}
	assert.Contains(t, entries, "ThongKe.txt")
	mc.AssertExpectations(t)
}

func TestGenerateExams_CacheFailureStillReturnsRun(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuestionBankRepository)
	mc := new(MockCache)
	mc.On("Get", ctx, mock.Anything).Return("", domain.ErrCacheMiss)
	repo.On("GetByID", mock.Anything, testBankID).Return(sampleBank(), nil)
	mc.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("OOM"))

	resp, err := NewExamService(repo, mc, nil, testConfig()).GenerateExams(ctx, &dto.GenerateExamRequest{BankID: testBankID})
	require.NoError(t, err)
	assert.Len(t, resp.Versions, 3)
	assert.Nil(t, resp.ExpiresAt)
}

func TestGenerateExams_AIAnswerKeysWithoutProvider(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuestionBankRepository)
	repo.On("GetByID", mock.Anything, testBankID).Return(sampleBank(), nil)

	req := &dto.GenerateExamRequest{BankID: testBankID, ExamSettings: dto.ExamSettings{AIAnswerKeys: true}}
	_, err := NewExamService(repo, nil, nil, testConfig()).GenerateExams(ctx, req)
	assert.True(t, domain.HasCode(err, domain.CodeAnswerKeyServiceError))
}

func TestPreviewExam(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuestionBankRepository)
	repo.On("GetByID", mock.Anything, testBankID).Return(sampleBank(), nil)
	svc := NewExamService(repo, nil, nil, testConfig())

	n, seed := 3, uint64(42)
	req := &dto.GenerateExamRequest{BankID: testBankID, ExamSettings: dto.ExamSettings{NumQuestions: &n, Seed: &seed}}

	first, err := svc.PreviewExam(ctx, req)
	require.NoError(t, err)
	require.Len(t, first.Questions, 3)
	for i, q := range first.Questions {
		assert.Equal(t, i+1, q.Number)
		assert.Empty(t, q.Correct)
		assert.Len(t, q.Options, 2)
	}

	second, err := svc.PreviewExam(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.Questions, second.Questions, "a fixed seed gives the same preview")

	req.IncludeAnswers = true
	withAnswers, err := svc.PreviewExam(ctx, req)
	require.NoError(t, err)
	answered := 0
	for _, q := range withAnswers.Questions {
		if q.Correct != "" {
			answered++
		}
	}
	assert.Equal(t, 2, answered)
}

func TestGetPackage(t *testing.T) {
	ctx := context.Background()
	key := cache.PackageKey("run-1")

	_, err := NewExamService(nil, nil, nil, testConfig()).GetPackage(ctx, "run-1")
	assert.True(t, domain.HasCode(err, domain.CodeCacheUnavailable))

	tests := []struct {
		name     string
		val      string
		cacheErr error
		wantCode domain.ErrorCode
	}{
		{name: "hit", val: "PK\x03\x04"},
		{name: "expired", cacheErr: domain.ErrCacheMiss, wantCode: domain.CodeNotFound},
		{name: "redis down", cacheErr: errors.New("i/o timeout"), wantCode: domain.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc := new(MockCache)
			mc.On("Get", ctx, key).Return(tt.val, tt.cacheErr)

			data, err := NewExamService(nil, mc, nil, testConfig()).GetPackage(ctx, "run-1")
			if tt.wantCode != "" {
				assert.True(t, domain.HasCode(err, tt.wantCode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []byte(tt.val), data)
		})
	}
}

func TestBuildPackage(t *testing.T) {
	versions := 2
	data, err := NewExamService(nil, nil, nil, testConfig()).
		BuildPackage(context.Background(), "de.txt", sampleDocument, dto.ExamSettings{NumVersions: &versions})
	require.NoError(t, err)

	entries := zipEntries(t, data)
	assert.Len(t, entries, 5)
	assert.Contains(t, entries, "README.txt")
	assert.Contains(t, entries["de-thi/De02.txt"], "ĐỀ THI PHIÊN BẢN 2")
	assert.Contains(t, entries["dap-an/DapAn01.txt"], "Đáp án cho Đề 1")

	_, err = NewExamService(nil, nil, nil, testConfig()).
		BuildPackage(context.Background(), "empty.txt", nil, dto.ExamSettings{})
	assert.True(t, domain.HasCode(err, domain.CodeNoQuestions))
}

func TestBuildPackage_DocumentBodyLimit(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		strings.Repeat(`<w:p><w:r><w:t>Câu 1: nội dung</w:t></w:r></w:p>`, 20) + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	cfg := testConfig()
	cfg.Server.MaxDocumentSize = 128
	_, err = NewExamService(nil, nil, nil, cfg).
		BuildPackage(context.Background(), "de.docx", buf.Bytes(), dto.ExamSettings{})
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeInvalidFormat))
}

func TestFillAnswerKeys(t *testing.T) {
	ctx := context.Background()
	qs := sampleQuestions()
	versions := []domain.ExamVersion{
		{Number: 1, Questions: []domain.Question{qs[2], qs[0]}},
		{Number: 2, Questions: []domain.Question{qs[0], qs[1]}},
	}

	filler := new(MockAnswerKeyFiller)
	filler.On("FillAnswers", mock.Anything, mock.AnythingOfType("string"), 2).
		Return(map[int]string{1: "B", 2: "D"}, nil)

	svc := NewExamService(nil, nil, filler, testConfig()).(*examService)
	keys, err := svc.fillAnswerKeys(ctx, versions)
	require.NoError(t, err)

	assert.Equal(t, map[int]string{1: "B", 2: "A"}, keys[1], "answers from the document win")
	assert.Equal(t, map[int]string{1: "A", 2: "B"}, keys[2])
	filler.AssertNumberOfCalls(t, "FillAnswers", 1)
}

func TestFillAnswerKeys_Errors(t *testing.T) {
	ctx := context.Background()
	versions := []domain.ExamVersion{{Number: 1, Questions: []domain.Question{sampleQuestions()[2]}}}

	svc := NewExamService(nil, nil, nil, testConfig()).(*examService)
	_, err := svc.fillAnswerKeys(ctx, versions)
	assert.True(t, domain.HasCode(err, domain.CodeAnswerKeyServiceError))

	filler := new(MockAnswerKeyFiller)
	filler.On("FillAnswers", mock.Anything, mock.Anything, 1).Return(nil, errors.New("model overloaded"))
	svc = NewExamService(nil, nil, filler, testConfig()).(*examService)
	_, err = svc.fillAnswerKeys(ctx, versions)
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeAnswerKeyServiceError))
	assert.ErrorContains(t, err, "model overloaded")
}
