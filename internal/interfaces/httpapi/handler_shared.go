package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/prediction-league/internal/domain/fixture"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/team"
	"github.com/riskibarqy/prediction-league/internal/domain/userstats"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

const maxRequestBodyBytes = 8 << 20

type Handler struct {
	fixtureService     *usecase.FixtureService
	predictionService  *usecase.PredictionService
	profileService     *usecase.ProfileService
	leaderboardService *usecase.LeaderboardService
	dashboardService   *usecase.DashboardService
	resultService      *usecase.ResultService
	ingestionService   *usecase.IngestionService
	rescoreService     *usecase.RescoreService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	fixtureService *usecase.FixtureService,
	predictionService *usecase.PredictionService,
	profileService *usecase.ProfileService,
	leaderboardService *usecase.LeaderboardService,
	dashboardService *usecase.DashboardService,
	resultService *usecase.ResultService,
	ingestionService *usecase.IngestionService,
	rescoreService *usecase.RescoreService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		fixtureService:     fixtureService,
		predictionService:  predictionService,
		profileService:     profileService,
		leaderboardService: leaderboardService,
		dashboardService:   dashboardService,
		resultService:      resultService,
		ingestionService:   ingestionService,
		rescoreService:     rescoreService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeBody decodes a JSON body into dst and validates it.
func (h *Handler) decodeBody(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, dst)
}

func queryPositiveInt(r *http.Request, key string) (int, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, false, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, false, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, key)
	}

	return value, true, nil
}

type submitPredictionRequest struct {
	FixtureID string `json:"fixtureId" validate:"required"`
	HomeScore *int   `json:"homeScore" validate:"required,min=0,max=20"`
	AwayScore *int   `json:"awayScore" validate:"required,min=0,max=20"`
}

type updateProfileRequest struct {
	DisplayName string `json:"displayName" validate:"required,max=50"`
}

type recordResultRequest struct {
	FixtureID string `json:"fixtureId" validate:"required"`
	HomeScore *int   `json:"homeScore" validate:"required,min=0"`
	AwayScore *int   `json:"awayScore" validate:"required,min=0"`
}

type updateScheduleRequest struct {
	FixtureID      string    `json:"fixtureId" validate:"required"`
	NewKickoffTime time.Time `json:"newKickoffTime" validate:"required"`
}

type importTeamsRequest struct {
	Items []usecase.ImportTeamInput `json:"items" validate:"required,min=1"`
}

type importFixturesRequest struct {
	Items []usecase.ImportFixtureInput `json:"items" validate:"required,min=1"`
}

type importPredictionsRequest struct {
	Items []usecase.ImportPredictionInput `json:"items" validate:"required,min=1"`
}

type rerunScoringRequest struct {
	Gameweek  int    `json:"gameweek" validate:"required_without=FixtureID,omitempty,min=1"`
	FixtureID string `json:"fixtureId" validate:"required_without=Gameweek"`
}

type teamDTO struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

type scheduleChangeDTO struct {
	PreviousKickoffTime string `json:"previousKickoffTime"`
	PreviousDeadline    string `json:"previousDeadline"`
	ChangedAt           string `json:"changedAt"`
}

type fixtureDTO struct {
	ID                 string              `json:"id"`
	Gameweek           int                 `json:"gameweek"`
	HomeTeam           string              `json:"homeTeam"`
	AwayTeam           string              `json:"awayTeam"`
	KickoffTime        string              `json:"kickoffTime"`
	PredictionDeadline string              `json:"predictionDeadline"`
	Status             string              `json:"status"`
	HomeScore          *int                `json:"homeScore"`
	AwayScore          *int                `json:"awayScore"`
	FinishedAt         string              `json:"finishedAt,omitempty"`
	ScheduleHistory    []scheduleChangeDTO `json:"scheduleHistory,omitempty"`
}

type predictionDTO struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	FixtureID    string `json:"fixtureId"`
	Gameweek     int    `json:"gameweek"`
	HomeScore    string `json:"homeScore"`
	AwayScore    string `json:"awayScore"`
	PointsEarned *int   `json:"pointsEarned"`
	CalculatedAt string `json:"calculatedAt,omitempty"`
	IsSubmitted  bool   `json:"isSubmitted"`
	SubmittedAt  string `json:"submittedAt"`
}

type statsDTO struct {
	TotalPoints               int `json:"totalPoints"`
	ExactPredictions          int `json:"exactPredictions"`
	CorrectPredictions        int `json:"correctPredictions"`
	WrongPredictions          int `json:"wrongPredictions"`
	ProcessedPredictionsCount int `json:"processedPredictionsCount"`
	AccuracyRate              int `json:"accuracyRate"`
	CurrentStreak             int `json:"currentStreak"`
	LongestStreak             int `json:"longestStreak"`
}

type profileDTO struct {
	UserID      string   `json:"userId"`
	DisplayName string   `json:"displayName"`
	Stats       statsDTO `json:"stats"`
}

type leaderboardEntryDTO struct {
	Rank        int      `json:"rank"`
	UserID      string   `json:"userId"`
	DisplayName string   `json:"displayName"`
	Stats       statsDTO `json:"stats"`
}

type dashboardDTO struct {
	UserID              string          `json:"userId"`
	DisplayName         string          `json:"displayName"`
	Stats               statsDTO        `json:"stats"`
	Rank                int             `json:"rank"`
	NextGameweek        int             `json:"nextGameweek"`
	UpcomingFixtures    []fixtureDTO    `json:"upcomingFixtures"`
	GameweekPredictions []predictionDTO `json:"gameweekPredictions"`
}

type importResultDTO struct {
	Kind     string   `json:"kind"`
	Received int      `json:"received"`
	Imported int      `json:"imported"`
	Rejected int      `json:"rejected"`
	Errors   []string `json:"errors,omitempty"`
}

type rescoreFixtureDTO struct {
	FixtureID  string `json:"fixtureId"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	Applied    int    `json:"applied"`
	Skipped    int    `json:"skipped"`
	DurationMs int64  `json:"durationMs"`
}

type rescoreResultDTO struct {
	Gameweek     int                 `json:"gameweek,omitempty"`
	Fixtures     []rescoreFixtureDTO `json:"fixtures"`
	SuccessCount int                 `json:"successCount"`
	FailedCount  int                 `json:"failedCount"`
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{Code: v.Code, Name: v.Name, ShortName: v.ShortName}
}

func fixtureToDTO(v fixture.Fixture) fixtureDTO {
	out := fixtureDTO{
		ID:                 v.ID,
		Gameweek:           v.Gameweek,
		HomeTeam:           v.HomeTeam,
		AwayTeam:           v.AwayTeam,
		KickoffTime:        formatTime(v.KickoffAt),
		PredictionDeadline: formatTime(v.PredictionDeadline),
		Status:             v.Status,
		HomeScore:          v.HomeScore,
		AwayScore:          v.AwayScore,
		FinishedAt:         formatOptionalTime(v.FinishedAt),
	}
	for _, change := range v.ScheduleHistory {
		out.ScheduleHistory = append(out.ScheduleHistory, scheduleChangeDTO{
			PreviousKickoffTime: formatTime(change.PreviousKickoffAt),
			PreviousDeadline:    formatTime(change.PreviousDeadline),
			ChangedAt:           formatTime(change.ChangedAt),
		})
	}
	return out
}

func fixturesToDTO(items []fixture.Fixture) []fixtureDTO {
	out := make([]fixtureDTO, 0, len(items))
	for _, item := range items {
		out = append(out, fixtureToDTO(item))
	}
	return out
}

func predictionToDTO(v prediction.Prediction) predictionDTO {
	return predictionDTO{
		ID:           v.ID,
		UserID:       v.UserID,
		FixtureID:    v.FixtureID,
		Gameweek:     v.Gameweek,
		HomeScore:    string(v.HomeScore),
		AwayScore:    string(v.AwayScore),
		PointsEarned: v.PointsEarned,
		CalculatedAt: formatOptionalTime(v.CalculatedAt),
		IsSubmitted:  v.IsSubmitted,
		SubmittedAt:  formatTime(v.SubmittedAt),
	}
}

func predictionsToDTO(items []prediction.Prediction) []predictionDTO {
	out := make([]predictionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, predictionToDTO(item))
	}
	return out
}

func statsToDTO(v userstats.Stats) statsDTO {
	return statsDTO{
		TotalPoints:               v.TotalPoints,
		ExactPredictions:          v.ExactPredictions,
		CorrectPredictions:        v.CorrectPredictions,
		WrongPredictions:          v.WrongPredictions,
		ProcessedPredictionsCount: v.ProcessedPredictionsCount,
		AccuracyRate:              v.AccuracyRate,
		CurrentStreak:             v.CurrentStreak,
		LongestStreak:             v.LongestStreak,
	}
}

func profileToDTO(v userstats.Profile) profileDTO {
	return profileDTO{UserID: v.UserID, DisplayName: v.DisplayName, Stats: statsToDTO(v.Stats)}
}

func importResultToDTO(v usecase.ImportResult) importResultDTO {
	return importResultDTO{
		Kind:     v.Kind,
		Received: v.Received,
		Imported: v.Imported,
		Rejected: v.Rejected,
		Errors:   v.Errors,
	}
}

func rescoreFixtureToDTO(v usecase.RescoreFixtureResult) rescoreFixtureDTO {
	return rescoreFixtureDTO{
		FixtureID:  v.FixtureID,
		Status:     v.Status,
		Message:    v.Message,
		Applied:    v.Applied,
		Skipped:    v.Skipped,
		DurationMs: v.DurationMs,
	}
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

func formatOptionalTime(v *time.Time) string {
	if v == nil {
		return ""
	}
	return formatTime(*v)
}
