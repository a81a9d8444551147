package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"exam-mixer/internal/assembler"
	"exam-mixer/internal/cache"
	"exam-mixer/internal/config"
	"exam-mixer/internal/document"
	"exam-mixer/internal/domain"
	"exam-mixer/internal/dto"
	"exam-mixer/internal/extractor"
	"exam-mixer/internal/logger"
	"exam-mixer/internal/render"
	"exam-mixer/internal/util"
)

const (
	defaultPackageTTL = 30 * time.Minute
	defaultBankTTL    = 10 * time.Minute
	bankLoadTimeout   = 30 * time.Second
)

// ExamService defines the interface for question bank and exam operations
type ExamService interface {
	ImportDocument(ctx context.Context, fileName string, content []byte) (*dto.ImportDocumentResponse, error)
	GetQuestionBank(ctx context.Context, id string) (*dto.QuestionBankResponse, error)
	ListQuestionBanks(ctx context.Context, limit int) (*dto.QuestionBankListResponse, error)
	DeleteQuestionBank(ctx context.Context, id string) error
	GenerateExams(ctx context.Context, req *dto.GenerateExamRequest) (*dto.GenerateExamResponse, error)
	PreviewExam(ctx context.Context, req *dto.GenerateExamRequest) (*dto.PreviewExamResponse, error)
	GetPackage(ctx context.Context, runID string) ([]byte, error)
	BuildPackage(ctx context.Context, fileName string, content []byte, settings dto.ExamSettings) ([]byte, error)
}

// examService implements ExamService
type examService struct {
	repo   domain.QuestionBankRepository
	cache  domain.Cache
	filler domain.AnswerKeyFiller
	cfg    *config.Config
	now    func() time.Time
	// loads coalesces concurrent store reads of the same bank.
	loads singleflight.Group
}

// NewExamService creates a new instance of examService. cache and filler may
// be nil; repo may be nil for callers that only use BuildPackage.
func NewExamService(
	repo domain.QuestionBankRepository,
	cache domain.Cache,
	filler domain.AnswerKeyFiller,
	cfg *config.Config,
) ExamService {
	return &examService{
		repo:   repo,
		cache:  cache,
		filler: filler,
		cfg:    cfg,
		now:    time.Now,
	}
}

// parseDocument decodes and extracts a document. An empty result is a
// NO_QUESTIONS error carrying the inspection warnings.
func parseDocument(fileName string, content []byte, maxBody int64) ([]domain.Question, []string, error) {
	lines, err := document.DecodeWithLimit(fileName, content, maxBody)
	if err != nil {
		return nil, nil, err
	}
	warnings := document.Inspect(lines)

	questions, err := extractor.Extract(lines)
	if err != nil {
		return nil, warnings, err
	}
	if len(questions) == 0 {
		return nil, warnings, domain.NewNoQuestionsError(fileName).WithContext("warnings", warnings)
	}
	return questions, warnings, nil
}

// ImportDocument implements ExamService
func (s *examService) ImportDocument(ctx context.Context, fileName string, content []byte) (*dto.ImportDocumentResponse, error) {
	if s.repo == nil {
		return nil, domain.NewInternalError("question bank store is not configured", nil)
	}

	questions, warnings, err := parseDocument(fileName, content, s.cfg.Server.MaxDocumentSize)
	if err != nil {
		logger.Get().Info("ExamService: document rejected",
			zap.String("file", fileName),
			zap.Strings("warnings", warnings),
			zap.Error(err))
		return nil, err
	}

	bank := domain.NewQuestionBank(fileName, questions)
	if err := bank.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, bank); err != nil {
		return nil, domain.NewInternalError("Failed to save question bank", err)
	}
	s.cacheBank(ctx, bank)

	logger.Get().Info("ExamService: imported question bank",
		zap.String("bankID", bank.ID),
		zap.String("file", fileName),
		zap.Int("questions", bank.QuestionCount),
		zap.Int("warnings", len(warnings)))

	return &dto.ImportDocumentResponse{
		QuestionBankResponse: dto.NewQuestionBankResponse(bank),
		Warnings:             warnings,
	}, nil
}

// GetQuestionBank implements ExamService
func (s *examService) GetQuestionBank(ctx context.Context, id string) (*dto.QuestionBankResponse, error) {
	bank, err := s.loadBank(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewQuestionBankResponse(bank)
	return &resp, nil
}

// ListQuestionBanks implements ExamService
func (s *examService) ListQuestionBanks(ctx context.Context, limit int) (*dto.QuestionBankListResponse, error) {
	if s.repo == nil {
		return nil, domain.NewInternalError("question bank store is not configured", nil)
	}
	banks, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list question banks", err)
	}
	resp := &dto.QuestionBankListResponse{Banks: make([]dto.QuestionBankResponse, 0, len(banks))}
	for _, bank := range banks {
		resp.Banks = append(resp.Banks, dto.NewQuestionBankResponse(bank))
	}
	return resp, nil
}

// DeleteQuestionBank implements ExamService. Cached copies are evicted;
// packages already generated from the bank stay downloadable until they expire.
func (s *examService) DeleteQuestionBank(ctx context.Context, id string) error {
	if s.repo == nil {
		return domain.NewInternalError("question bank store is not configured", nil)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return domain.NewInternalError("Failed to delete question bank", err)
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, cache.BankKey(id)); err != nil {
			logger.Get().Warn("ExamService: Failed to evict cached bank", zap.String("bankID", id), zap.Error(err))
		}
	}
	logger.Get().Info("ExamService: deleted question bank", zap.String("bankID", id))
	return nil
}

// GenerateExams implements ExamService
func (s *examService) GenerateExams(ctx context.Context, req *dto.GenerateExamRequest) (*dto.GenerateExamResponse, error) {
	bank, err := s.loadBank(ctx, req.BankID)
	if err != nil {
		return nil, err
	}

	settings := req.ExamSettings
	settings.ApplyDefaults(s.cfg.Generation)

	versions, err := s.assemble(bank.Questions, settings)
	if err != nil {
		return nil, err
	}
	created := s.now()
	data, popts, err := s.renderPackage(ctx, versions, settings, created)
	if err != nil {
		return nil, err
	}

	resp := &dto.GenerateExamResponse{
		RunID:     util.NewULID(),
		BankID:    bank.ID,
		Versions:  make([]dto.ExamVersionSummary, 0, len(versions)),
		Files:     render.PackageEntries(len(versions), popts),
		CreatedAt: created,
	}
	for _, v := range versions {
		resp.Versions = append(resp.Versions, dto.ExamVersionSummary{Number: v.Number, Stats: v.Stats()})
	}

	if s.cache == nil {
		logger.Get().Warn("ExamService: Cache client is nil, package will not be downloadable", zap.String("runID", resp.RunID))
		return resp, nil
	}
	ttl := s.cfg.ParseTTLStringOrDefault(s.cfg.CacheTTLs.Package, defaultPackageTTL)
	if err := s.cache.Set(ctx, cache.PackageKey(resp.RunID), string(data), ttl); err != nil {
		logger.Get().Error("ExamService: Failed to cache exam package",
			zap.String("runID", resp.RunID),
			zap.Error(err))
		return resp, nil
	}
	expires := created.Add(ttl)
	resp.ExpiresAt = &expires

	logger.Get().Info("ExamService: generated exams",
		zap.String("runID", resp.RunID),
		zap.String("bankID", bank.ID),
		zap.Int("versions", len(versions)),
		zap.Int("bytes", len(data)))
	return resp, nil
}

// PreviewExam implements ExamService. Only a single version is assembled.
func (s *examService) PreviewExam(ctx context.Context, req *dto.GenerateExamRequest) (*dto.PreviewExamResponse, error) {
	bank, err := s.loadBank(ctx, req.BankID)
	if err != nil {
		return nil, err
	}

	settings := req.ExamSettings
	settings.ApplyDefaults(s.cfg.Generation)
	one := 1
	settings.NumVersions = &one

	versions, err := s.assemble(bank.Questions, settings)
	if err != nil {
		return nil, err
	}
	resp := dto.NewPreviewExamResponse(bank.ID, versions[0], settings.IncludeAnswers)
	return &resp, nil
}

// GetPackage implements ExamService
func (s *examService) GetPackage(ctx context.Context, runID string) ([]byte, error) {
	if s.cache == nil {
		return nil, domain.NewCacheUnavailableError()
	}
	data, err := s.cache.Get(ctx, cache.PackageKey(runID))
	if errors.Is(err, domain.ErrCacheMiss) {
		return nil, domain.NewNotFoundError("exam package not found or expired").WithContext("run_id", runID)
	}
	if err != nil {
		return nil, domain.NewInternalError("Failed to read exam package", err)
	}
	return []byte(data), nil
}

// BuildPackage implements ExamService. Nothing is persisted.
func (s *examService) BuildPackage(ctx context.Context, fileName string, content []byte, settings dto.ExamSettings) ([]byte, error) {
	questions, _, err := parseDocument(fileName, content, s.cfg.Server.MaxDocumentSize)
	if err != nil {
		return nil, err
	}
	settings.ApplyDefaults(s.cfg.Generation)

	versions, err := s.assemble(questions, settings)
	if err != nil {
		return nil, err
	}
	data, _, err := s.renderPackage(ctx, versions, settings, s.now())
	return data, err
}

func (s *examService) assemble(pool []domain.Question, settings dto.ExamSettings) ([]domain.ExamVersion, error) {
	seed := *settings.Seed
	if seed == 0 {
		seed = uint64(s.now().UnixNano())
	}
	return assembler.NewSeeded(seed).Assemble(pool, settings.Request())
}

func (s *examService) renderPackage(ctx context.Context, versions []domain.ExamVersion, settings dto.ExamSettings, created time.Time) ([]byte, render.PackageOptions, error) {
	popts := render.PackageOptions{
		IncludeAnswers: settings.IncludeAnswers,
		Statistics:     settings.IncludeStatistics,
		CreatedAt:      created,
	}
	if settings.AIAnswerKeys {
		keys, err := s.fillAnswerKeys(ctx, versions)
		if err != nil {
			return nil, popts, err
		}
		popts.AnswerKeys = keys
	}

	data, err := render.Package(versions, popts)
	if err != nil {
		return nil, popts, domain.NewInternalError("Failed to build exam package", err)
	}
	return data, popts, nil
}

// fillAnswerKeys asks the filler for every version concurrently. Answers
// already known from the source document take precedence over the model's.
func (s *examService) fillAnswerKeys(ctx context.Context, versions []domain.ExamVersion) (map[int]map[int]string, error) {
	if s.filler == nil {
		return nil, domain.NewAnswerKeyServiceError(errors.New("no answer key provider configured"))
	}

	results := make([]map[int]string, len(versions))
	g, gctx := errgroup.WithContext(ctx)
	limit := s.cfg.AnswerKey.Concurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, v := range versions {
		g.Go(func() error {
			keys := render.SourceAnswers(v)
			if len(keys) == len(v.Questions) {
				results[i] = keys
				return nil
			}
			filled, err := s.filler.FillAnswers(gctx, render.ExamText(v, render.Options{}), len(v.Questions))
			if err != nil {
				return fmt.Errorf("version %d: %w", v.Number, err)
			}
			for n, letter := range filled {
				if _, ok := keys[n]; !ok {
					keys[n] = letter
				}
			}
			results[i] = keys
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if domain.HasCode(err, domain.CodeAnswerKeyServiceError) {
			return nil, err
		}
		return nil, domain.NewAnswerKeyServiceError(err)
	}

	keys := make(map[int]map[int]string, len(versions))
	for i, v := range versions {
		keys[v.Number] = results[i]
	}
	return keys, nil
}

// loadBank reads a bank through the cache.
func (s *examService) loadBank(ctx context.Context, id string) (*domain.QuestionBank, error) {
	if s.repo == nil {
		return nil, domain.NewInternalError("question bank store is not configured", nil)
	}

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, cache.BankKey(id))
		switch {
		case err == nil:
			var bank domain.QuestionBank
			jerr := json.Unmarshal([]byte(raw), &bank)
			if jerr == nil {
				return &bank, nil
			}
			logger.Get().Warn("ExamService: Discarding undecodable cached bank", zap.String("bankID", id), zap.Error(jerr))
		case !errors.Is(err, domain.ErrCacheMiss):
			logger.Get().Warn("ExamService: Cache read failed, falling back to store", zap.String("bankID", id), zap.Error(err))
		}
	}

	// The shared load outlives any single caller, so one caller cancelling
	// must not fail the others waiting on the same key.
	res, err, _ := s.loads.Do(id, func() (interface{}, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), bankLoadTimeout)
		defer cancel()

		bank, err := s.repo.GetByID(lctx, id)
		if err != nil {
			return nil, domain.NewInternalError("Failed to load question bank", err)
		}
		if bank == nil {
			return nil, domain.NewNotFoundError("question bank not found").WithContext("bank_id", id)
		}
		s.cacheBank(lctx, bank)
		return bank, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*domain.QuestionBank), nil
}

func (s *examService) cacheBank(ctx context.Context, bank *domain.QuestionBank) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(bank)
	if err != nil {
		logger.Get().Error("ExamService: Failed to encode bank for cache", zap.String("bankID", bank.ID), zap.Error(err))
		return
	}
	ttl := s.cfg.ParseTTLStringOrDefault(s.cfg.CacheTTLs.QuestionBank, defaultBankTTL)
	if err := s.cache.Set(ctx, cache.BankKey(bank.ID), string(data), ttl); err != nil {
		logger.Get().Warn("ExamService: Failed to cache question bank", zap.String("bankID", bank.ID), zap.Error(err))
	}
}
