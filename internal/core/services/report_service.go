package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"editortrack/internal/adapters/persistence/models"
	"editortrack/internal/adapters/persistence/repositories"
	"editortrack/internal/core/domain"
)

// ReportService composes read-only views over entry data
type ReportService struct {
	entryRepo repositories.EntryRepository
}

// NewReportService creates a new report service
func NewReportService(entryRepo repositories.EntryRepository) *ReportService {
	return &ReportService{entryRepo: entryRepo}
}

// DaySummary identifies one entry in best/worst day reporting
type DaySummary struct {
	Date              string `json:"date"`
	VideosCompleted   int    `json:"videos_completed"`
	ProductivityScore int    `json:"productivity_score"`
}

// Analytics represents derived metrics over a set of entries
type Analytics struct {
	TotalEntries        int         `json:"total_entries"`
	TotalVideos         int         `json:"total_videos"`
	TotalHours          float64     `json:"total_hours"`
	AverageProductivity int         `json:"average_productivity"`
	AverageVideosPerDay float64     `json:"average_videos_per_day"`
	BestDay             *DaySummary `json:"best_day"`
	WorstDay            *DaySummary `json:"worst_day"`
	MostProductiveHour  int         `json:"most_productive_hour"`
	ConsistencyScore    int         `json:"consistency_score"`
}

// LeaderboardRow ranks one user in a leaderboard window
type LeaderboardRow struct {
	Rank        int     `json:"rank"`
	UserID      uint    `json:"user_id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	TotalVideos int     `json:"total_videos"`
	EntryCount  int     `json:"entry_count"`
	AvgScore    float64 `json:"avg_score"`
}

// ExportResult carries a rendered export body
type ExportResult struct {
	ContentType string
	Filename    string
	Body        []byte
}

// exportRow is the shared projection all export formats derive from
type exportRow struct {
	Date              string   `json:"date"`
	VideosCompleted   int      `json:"videos_completed"`
	TargetVideos      int      `json:"target_videos"`
	ProductivityScore int      `json:"productivity_score"`
	TotalHours        float64  `json:"total_hours"`
	Mood              string   `json:"mood"`
	EnergyLevel       int      `json:"energy_level"`
	Challenges        []string `json:"challenges"`
	Achievements      []string `json:"achievements"`
	Notes             string   `json:"notes"`
}

// ComputeAnalytics derives metrics from a non-empty entry list.
// Returns nil for an empty list; callers decide how to surface that.
func ComputeAnalytics(entries []*models.Entry) *Analytics {
	if len(entries) == 0 {
		return nil
	}

	a := &Analytics{TotalEntries: len(entries)}

	scoreSum := 0
	consistent := 0
	hourScores := make(map[int]int)
	best := entries[0]
	worst := entries[0]

	for _, e := range entries {
		a.TotalVideos += e.VideosCompleted
		a.TotalHours += e.TotalHours
		scoreSum += e.ProductivityScore

		if e.ProductivityScore >= domain.ConsistencyThreshold {
			consistent++
		}

		// First occurrence wins on ties
		if e.ProductivityScore > best.ProductivityScore {
			best = e
		}
		if e.ProductivityScore < worst.ProductivityScore {
			worst = e
		}

		if !e.ShiftStart.IsZero() {
			hourScores[e.ShiftStart.Hour()] += e.ProductivityScore
		}
	}

	a.TotalHours = domain.Round2(a.TotalHours)
	a.AverageProductivity = int(float64(scoreSum)/float64(len(entries)) + 0.5)
	a.AverageVideosPerDay = domain.Round2(float64(a.TotalVideos) / float64(len(entries)))
	a.ConsistencyScore = domain.ProgressPercent(consistent, len(entries))
	a.BestDay = daySummary(best)
	a.WorstDay = daySummary(worst)

	a.MostProductiveHour = domain.FallbackPeakHour
	bestHourScore := -1
	for hour := 0; hour < 24; hour++ {
		if score, ok := hourScores[hour]; ok && score > bestHourScore {
			bestHourScore = score
			a.MostProductiveHour = hour
		}
	}

	return a
}

func daySummary(e *models.Entry) *DaySummary {
	return &DaySummary{
		Date:              e.EntryDate.Format("2006-01-02"),
		VideosCompleted:   e.VideosCompleted,
		ProductivityScore: e.ProductivityScore,
	}
}

// ComputeLeaderboard ranks distinct users by summed videos, descending.
// Ties break toward the lower user ID so rankings are deterministic.
func ComputeLeaderboard(entries []*models.Entry) []LeaderboardRow {
	byUser := make(map[uint]*LeaderboardRow)
	scoreSums := make(map[uint]int)

	for _, e := range entries {
		row, ok := byUser[e.UserID]
		if !ok {
			row = &LeaderboardRow{UserID: e.UserID}
			if e.User != nil {
				row.Name = e.User.Name
				row.Email = e.User.Email
			}
			byUser[e.UserID] = row
		}
		row.TotalVideos += e.VideosCompleted
		row.EntryCount++
		scoreSums[e.UserID] += e.ProductivityScore
	}

	rows := make([]LeaderboardRow, 0, len(byUser))
	for userID, row := range byUser {
		row.AvgScore = domain.Round2(float64(scoreSums[userID]) / float64(row.EntryCount))
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalVideos != rows[j].TotalVideos {
			return rows[i].TotalVideos > rows[j].TotalVideos
		}
		return rows[i].UserID < rows[j].UserID
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}

	return rows
}

// UserAnalytics computes analytics over one user's entries in a range
func (s *ReportService) UserAnalytics(ctx context.Context, userID uint, from, to *time.Time) (*Analytics, error) {
	entries, err := s.entryRepo.FindRange(ctx, repositories.EntryFilter{
		UserID:   &userID,
		DateFrom: from,
		DateTo:   to,
	})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, domain.ErrNotFound
	}
	return ComputeAnalytics(entries), nil
}

// Leaderboard ranks all users over the named window ("week" or "month")
func (s *ReportService) Leaderboard(ctx context.Context, window string, now time.Time) ([]LeaderboardRow, error) {
	var from, to time.Time
	switch window {
	case "month":
		from, to = domain.MonthWindow(now)
	default:
		from, to = domain.WeekWindow(now)
	}

	entries, err := s.entryRepo.FindRange(ctx, repositories.EntryFilter{
		DateFrom: &from,
		DateTo:   &to,
	})
	if err != nil {
		return nil, err
	}

	return ComputeLeaderboard(entries), nil
}

// Export renders a user's entries in the requested format. Fails with
// domain.ErrNotFound when no entries match the range.
func (s *ReportService) Export(ctx context.Context, userID uint, from, to *time.Time, format string, withAnalytics bool) (*ExportResult, error) {
	switch format {
	case "json", "csv", "excel":
	default:
		return nil, domain.ErrInvalidInput
	}

	entries, err := s.entryRepo.FindRange(ctx, repositories.EntryFilter{
		UserID:   &userID,
		DateFrom: from,
		DateTo:   to,
	})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, domain.ErrNotFound
	}

	rows := make([]exportRow, len(entries))
	for i, e := range entries {
		rows[i] = exportRow{
			Date:              e.EntryDate.Format("2006-01-02"),
			VideosCompleted:   e.VideosCompleted,
			TargetVideos:      e.TargetVideos,
			ProductivityScore: e.ProductivityScore,
			TotalHours:        e.TotalHours,
			Mood:              e.Mood,
			EnergyLevel:       e.EnergyLevel,
			Challenges:        []string(e.Challenges),
			Achievements:      []string(e.Achievements),
			Notes:             e.Notes,
		}
	}

	stamp := time.Now().Format("20060102")

	switch format {
	case "csv":
		body, err := renderTable(rows, ',')
		if err != nil {
			return nil, err
		}
		return &ExportResult{
			ContentType: "text/csv; charset=utf-8",
			Filename:    fmt.Sprintf("entries_%s.csv", stamp),
			Body:        body,
		}, nil

	case "excel":
		body, err := renderTable(rows, '\t')
		if err != nil {
			return nil, err
		}
		return &ExportResult{
			ContentType: "application/vnd.ms-excel",
			Filename:    fmt.Sprintf("entries_%s.xls", stamp),
			Body:        body,
		}, nil

	default: // json, validated above
		payload := map[string]interface{}{"entries": rows}
		if withAnalytics {
			payload["analytics"] = ComputeAnalytics(entries)
		}
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		return &ExportResult{
			ContentType: "application/json",
			Filename:    fmt.Sprintf("entries_%s.json", stamp),
			Body:        body,
		}, nil
	}
}

// renderTable writes the shared projection as a delimited table.
// encoding/csv quotes free-text fields that embed the delimiter.
func renderTable(rows []exportRow, delimiter rune) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = delimiter

	header := []string{
		"date", "videos_completed", "target_videos", "productivity_score",
		"total_hours", "mood", "energy_level", "challenges", "achievements", "notes",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{
			r.Date,
			strconv.Itoa(r.VideosCompleted),
			strconv.Itoa(r.TargetVideos),
			strconv.Itoa(r.ProductivityScore),
			strconv.FormatFloat(r.TotalHours, 'f', 2, 64),
			r.Mood,
			strconv.Itoa(r.EnergyLevel),
			strings.Join(r.Challenges, "; "),
			strings.Join(r.Achievements, "; "),
			r.Notes,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
