package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurobud/neurobud-api/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

// fullRecord returns a record with every category populated so the weighted
// denominator is the full 100 points.
func fullRecord() models.DailyRecord {
	return models.DailyRecord{
		ID:      "rec-1",
		UserID:  "user-1",
		ChildID: "child-1",
		Sleep:   &models.SleepData{Quality: models.SleepGood},
		Mood:    &models.MoodData{Morning: "happy", Afternoon: "calm", Evening: "focused"},
		Nutrition: &models.NutritionData{Meals: map[string]models.MealEntry{
			"breakfast": {Quality: "good"},
			"lunch":     {Quality: "excellent"},
		}},
		Medication: &models.MedicationData{Medications: []models.MedicationEntry{
			{Name: "med-a", Taken: true},
			{Name: "med-b", Taken: true},
		}},
		Crisis: &models.CrisisData{
			Morning:   &models.CrisisPeriod{Occurred: false},
			Afternoon: &models.CrisisPeriod{Occurred: false},
			Evening:   &models.CrisisPeriod{Occurred: false},
		},
		Activity: &models.ActivityData{
			Morning: &models.ActivityPeriod{Activities: []models.ActivityEntry{{Name: "painting"}}},
			Evening: &models.ActivityPeriod{Activities: []models.ActivityEntry{{Name: "reading"}}},
		},
	}
}

func TestScoreRecordDeterministic(t *testing.T) {
	record := fullRecord()

	first := scoreRecord(record)
	second := scoreRecord(record)

	assert.Equal(t, first, second)
	assert.Equal(t, buildInsights(record, nil), buildInsights(record, nil))
	assert.Equal(t, buildAlerts(record, first), buildAlerts(record, first))
}

func TestScoreRecordBounds(t *testing.T) {
	records := []models.DailyRecord{
		{},
		fullRecord(),
		{Sleep: &models.SleepData{Quality: models.SleepTerrible}},
		{Crisis: &models.CrisisData{
			Morning:   &models.CrisisPeriod{Occurred: true, Intensity: 5},
			Afternoon: &models.CrisisPeriod{Occurred: true, Intensity: 5},
			Evening:   &models.CrisisPeriod{Occurred: true, Intensity: 5},
		}},
		{Medication: &models.MedicationData{Medications: []models.MedicationEntry{{Taken: false}}}},
	}

	for _, record := range records {
		score := scoreRecord(record)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 100.0)
	}
}

// An entirely empty record still carries the crisis weight in the
// denominator, so the result is a clean zero rather than NaN. The asymmetry
// is intentional in the scoring rules; see the scoreRecord doc comment.
func TestScoreRecordEmptyRecordScoresZero(t *testing.T) {
	score := scoreRecord(models.DailyRecord{})

	assert.Equal(t, 0.0, score)
	assert.False(t, score != score, "score must not be NaN")
}

// The sleep section joins the denominator whenever the object is present,
// even with no quality value, so a lone empty sleep section still scores 0.
func TestScoreRecordEmptySleepSectionCountsTowardMax(t *testing.T) {
	score := scoreRecord(models.DailyRecord{Sleep: &models.SleepData{}})

	assert.Equal(t, 0.0, score)
}

func TestScoreRecordSleepMonotonicity(t *testing.T) {
	qualities := []models.SleepQuality{
		models.SleepTerrible, models.SleepPoor, models.SleepFair, models.SleepGood, models.SleepExcellent,
	}

	previous := -1.0
	for _, quality := range qualities {
		record := fullRecord()
		record.Sleep = &models.SleepData{Quality: quality}
		score := scoreRecord(record)
		assert.Greater(t, score, previous, "quality %s should raise the score", quality)
		previous = score
	}

	terrible := fullRecord()
	terrible.Sleep = &models.SleepData{Quality: models.SleepTerrible}
	excellent := fullRecord()
	excellent.Sleep = &models.SleepData{Quality: models.SleepExcellent}

	// 4 vs 20 of 20 sleep points over a 100-point denominator.
	assert.InDelta(t, 16.0, scoreRecord(excellent)-scoreRecord(terrible), 1e-9)
}

func TestScoreRecordCrisisMonotonicity(t *testing.T) {
	withCrises := func(occurred int) models.DailyRecord {
		record := fullRecord()
		periods := []*models.CrisisPeriod{
			{Occurred: occurred > 0},
			{Occurred: occurred > 1},
			{Occurred: occurred > 2},
		}
		record.Crisis = &models.CrisisData{Morning: periods[0], Afternoon: periods[1], Evening: periods[2]}
		return record
	}

	previous := scoreRecord(withCrises(0))
	for occurred := 1; occurred <= 3; occurred++ {
		score := scoreRecord(withCrises(occurred))
		assert.Less(t, score, previous)
		previous = score
	}

	// With every category present the denominator is 100, so the full crisis
	// weight maps to exactly 15 score points.
	assert.InDelta(t, 15.0, scoreRecord(withCrises(0))-scoreRecord(withCrises(3)), 1e-9)
}

func TestClassifyEvolution(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		previous *float64
		want     models.EvolutionStatus
	}{
		{name: "no previous", score: 80, previous: nil, want: models.EvolutionNeutral},
		{name: "exactly plus five stays neutral", score: 60, previous: floatPtr(55), want: models.EvolutionNeutral},
		{name: "exactly minus five stays neutral", score: 55, previous: floatPtr(60), want: models.EvolutionNeutral},
		{name: "just above band improves", score: 60.01, previous: floatPtr(55), want: models.EvolutionImproved},
		{name: "just below band regresses", score: 49.99, previous: floatPtr(55), want: models.EvolutionRegressed},
		{name: "identical stays neutral", score: 70, previous: floatPtr(70), want: models.EvolutionNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyEvolution(tt.score, tt.previous))
		})
	}
}

func TestBuildInsightsFirstDay(t *testing.T) {
	insights := buildInsights(fullRecord(), nil)

	require.Len(t, insights, 1)
	assert.Equal(t, insightFirstDay, insights[0])
}

func TestBuildInsightsOrdering(t *testing.T) {
	today := fullRecord()
	today.Sleep = &models.SleepData{Quality: models.SleepExcellent}

	previous := fullRecord()
	previous.Sleep = &models.SleepData{Quality: models.SleepPoor}
	previous.Mood = &models.MoodData{Morning: "sad", Afternoon: "angry"}
	previous.Crisis = &models.CrisisData{
		Morning:   &models.CrisisPeriod{Occurred: true, Intensity: 3},
		Afternoon: &models.CrisisPeriod{Occurred: true, Intensity: 2},
	}

	insights := buildInsights(today, &previous)

	require.Len(t, insights, 3)
	assert.Equal(t, insightSleepImproved, insights[0])
	assert.Equal(t, insightMoodImproved, insights[1])
	assert.Equal(t, insightFewerCrises, insights[2])
}

func TestBuildInsightsMissingMoodCountsAsZero(t *testing.T) {
	today := fullRecord()
	previous := fullRecord()
	previous.Mood = nil

	insights := buildInsights(today, &previous)

	assert.Contains(t, insights, insightMoodImproved)
}

func TestBuildInsightsNoChanges(t *testing.T) {
	today := fullRecord()
	previous := fullRecord()

	assert.Empty(t, buildInsights(today, &previous))
}

func TestBuildAlerts(t *testing.T) {
	record := models.DailyRecord{
		Sleep: &models.SleepData{Quality: models.SleepTerrible},
		Crisis: &models.CrisisData{
			Morning:   &models.CrisisPeriod{Occurred: true, Intensity: 5},
			Afternoon: &models.CrisisPeriod{Occurred: true, Intensity: 2},
		},
		Medication: &models.MedicationData{Medications: []models.MedicationEntry{
			{Name: "med-a", Taken: false},
			{Name: "med-b", Taken: false},
			{Name: "med-c", Taken: true},
		}},
	}

	alerts := buildAlerts(record, 30)

	require.Len(t, alerts, 5)
	assert.Equal(t, alertLowScore, alerts[0])
	assert.Equal(t, alertPoorSleep, alerts[1])
	assert.Equal(t, alertMultipleCrises, alerts[2])
	assert.Equal(t, alertIntenseCrisis, alerts[3])
	assert.Equal(t, "2 medication dose(s) were missed.", alerts[4])
}

func TestBuildAlertsQuietDay(t *testing.T) {
	assert.Empty(t, buildAlerts(fullRecord(), 95))
}

// Non-occurred periods never trip the intensity alert even with a stored
// intensity value.
func TestBuildAlertsIntensityRequiresOccurred(t *testing.T) {
	record := models.DailyRecord{
		Crisis: &models.CrisisData{Morning: &models.CrisisPeriod{Occurred: false, Intensity: 5}},
	}

	assert.Empty(t, buildAlerts(record, 80))
}

// Two consecutive days matching the reference scenario: poor sleep, two
// crises and a single good meal, followed by a clean excellent day.
func TestScoringScenarioTwoDays(t *testing.T) {
	previous := models.DailyRecord{
		ChildID: "child-1",
		Sleep:   &models.SleepData{Quality: models.SleepPoor},
		Crisis: &models.CrisisData{
			Morning:   &models.CrisisPeriod{Occurred: true, Intensity: 5},
			Afternoon: &models.CrisisPeriod{Occurred: true, Intensity: 2},
		},
		Nutrition: &models.NutritionData{Meals: map[string]models.MealEntry{
			"lunch": {Quality: "good"},
		}},
	}

	today := models.DailyRecord{
		ChildID: "child-1",
		Sleep:   &models.SleepData{Quality: models.SleepExcellent},
		Crisis: &models.CrisisData{
			Morning:   &models.CrisisPeriod{Occurred: false},
			Afternoon: &models.CrisisPeriod{Occurred: false},
			Evening:   &models.CrisisPeriod{Occurred: false},
		},
		Medication: &models.MedicationData{Medications: []models.MedicationEntry{
			{Name: "med-a", Taken: true},
			{Name: "med-b", Taken: true},
		}},
		Nutrition: &models.NutritionData{Meals: map[string]models.MealEntry{
			"breakfast": {Quality: "excellent"},
			"lunch":     {Quality: "excellent"},
		}},
	}

	prevScore := scoreRecord(previous)
	todayScore := scoreRecord(today)

	// previous: sleep 8/20 + nutrition 15/15 + crisis 5/15 over max 50.
	assert.InDelta(t, 56.0, prevScore, 1e-9)
	assert.InDelta(t, 100.0, todayScore, 1e-9)
	assert.Greater(t, todayScore-prevScore, evolutionBand)
	assert.Equal(t, models.EvolutionImproved, classifyEvolution(todayScore, &prevScore))

	insights := buildInsights(today, &previous)
	assert.Contains(t, insights, insightSleepImproved)
	assert.Contains(t, insights, insightFewerCrises)

	prevAlerts := buildAlerts(previous, prevScore)
	assert.Contains(t, prevAlerts, alertMultipleCrises)
	assert.Contains(t, prevAlerts, alertIntenseCrisis)
	assert.Contains(t, prevAlerts, alertPoorSleep)

	assert.Empty(t, buildAlerts(today, todayScore))
}
