package service

import (
	"fmt"

	"github.com/neurobud/neurobud-api/internal/models"
)

// Category weights. A category only joins the weighted average when its data
// is present, so unlogged categories shrink the denominator instead of
// dragging the score down. Sleep and crisis are the two exceptions, handled
// inline in scoreRecord.
const (
	sleepWeight      = 20.0
	moodWeight       = 20.0
	nutritionWeight  = 15.0
	medicationWeight = 15.0
	crisisWeight     = 15.0
	activityWeight   = 15.0

	crisisPeriods = 3.0

	// Hysteresis band for day-over-day classification. Differences of
	// exactly 5 points stay neutral.
	evolutionBand = 5.0

	lowScoreThreshold      = 50.0
	highIntensityThreshold = 4.0
)

var sleepPoints = map[models.SleepQuality]float64{
	models.SleepExcellent: 20,
	models.SleepGood:      16,
	models.SleepFair:      12,
	models.SleepPoor:      8,
	models.SleepTerrible:  4,
}

var sleepRank = map[models.SleepQuality]int{
	models.SleepTerrible:  0,
	models.SleepPoor:      1,
	models.SleepFair:      2,
	models.SleepGood:      3,
	models.SleepExcellent: 4,
}

var positiveMoods = map[string]struct{}{
	"happy":   {},
	"excited": {},
	"calm":    {},
	"focused": {},
}

const (
	insightFirstDay      = "First day of recording, no comparison available yet."
	insightSleepImproved = "Sleep quality improved compared to the previous day."
	insightSleepWorsened = "Sleep quality worsened compared to the previous day."
	insightMoodImproved  = "Mood was more positive than the previous day."
	insightMoodUnstable  = "Mood was more unstable than the previous day."
	insightFewerCrises   = "Fewer crises than the previous day."
	insightMoreCrises    = "More crises than the previous day."

	alertLowScore       = "Wellness score is below 50; the day may have been difficult."
	alertPoorSleep      = "Sleep quality was rated poor or terrible."
	alertMultipleCrises = "Two or more crises occurred during the day."
	alertIntenseCrisis  = "At least one crisis reached intensity 4 or higher."
)

// scoreRecord converts one daily record into a wellness score in [0, 100].
// Pure function: identical input always yields an identical score.
//
// Known asymmetry carried over from the original scoring rules: when the
// sleep section exists with no quality, its weight still joins the
// denominator (contributing 0), and the crisis weight joins the denominator
// even when the section is absent entirely. The other four categories are
// excluded from both sides when unlogged. Tests pin this behaviour down.
func scoreRecord(record models.DailyRecord) float64 {
	var total, max float64

	if record.Sleep != nil {
		max += sleepWeight
		total += sleepPoints[record.Sleep.Quality]
	}

	if record.Mood != nil {
		values := moodValues(record.Mood)
		if len(values) > 0 {
			positive := 0
			for _, v := range values {
				if _, ok := positiveMoods[v]; ok {
					positive++
				}
			}
			total += float64(positive) / float64(len(values)) * moodWeight
			max += moodWeight
		}
	}

	if record.Nutrition != nil && len(record.Nutrition.Meals) > 0 {
		good := 0
		for _, meal := range record.Nutrition.Meals {
			if meal.Quality == "good" || meal.Quality == "excellent" {
				good++
			}
		}
		total += float64(good) / float64(len(record.Nutrition.Meals)) * nutritionWeight
		max += nutritionWeight
	}

	if record.Medication != nil && len(record.Medication.Medications) > 0 {
		taken := 0
		for _, med := range record.Medication.Medications {
			if med.Taken {
				taken++
			}
		}
		total += float64(taken) / float64(len(record.Medication.Medications)) * medicationWeight
		max += medicationWeight
	}

	max += crisisWeight
	if record.Crisis != nil {
		occurred := occurredCrises(record.Crisis)
		total += (1 - float64(occurred)/crisisPeriods) * crisisWeight
	}

	if record.Activity != nil {
		withData, participating := activityParticipation(record.Activity)
		if withData > 0 {
			total += float64(participating) / float64(withData) * activityWeight
			max += activityWeight
		}
	}

	if max <= 0 {
		return 0
	}
	return total / max * 100
}

// classifyEvolution tags the day-over-day trend. The band is exclusive on
// both sides so that noise of exactly ±5 points stays neutral.
func classifyEvolution(score float64, previous *float64) models.EvolutionStatus {
	if previous == nil {
		return models.EvolutionNeutral
	}
	switch {
	case score > *previous+evolutionBand:
		return models.EvolutionImproved
	case score < *previous-evolutionBand:
		return models.EvolutionRegressed
	default:
		return models.EvolutionNeutral
	}
}

// buildInsights derives ordered comparison insights: sleep, then mood, then
// crisis count. A missing previous day short-circuits to a single first-day
// message.
func buildInsights(today models.DailyRecord, previous *models.DailyRecord) []string {
	if previous == nil {
		return []string{insightFirstDay}
	}

	insights := make([]string, 0, 3)

	if today.Sleep != nil && previous.Sleep != nil {
		todayRank, todayOK := sleepRank[today.Sleep.Quality]
		prevRank, prevOK := sleepRank[previous.Sleep.Quality]
		if todayOK && prevOK {
			if todayRank > prevRank {
				insights = append(insights, insightSleepImproved)
			} else if todayRank < prevRank {
				insights = append(insights, insightSleepWorsened)
			}
		}
	}

	todayMood := moodPositivity(today.Mood)
	prevMood := moodPositivity(previous.Mood)
	if todayMood > prevMood {
		insights = append(insights, insightMoodImproved)
	} else if todayMood < prevMood {
		insights = append(insights, insightMoodUnstable)
	}

	todayCrises := occurredCrises(today.Crisis)
	prevCrises := occurredCrises(previous.Crisis)
	if todayCrises < prevCrises {
		insights = append(insights, insightFewerCrises)
	} else if todayCrises > prevCrises {
		insights = append(insights, insightMoreCrises)
	}

	return insights
}

// buildAlerts derives ordered alerts for a scored day. Checks are
// independent; every applicable alert is included.
func buildAlerts(record models.DailyRecord, score float64) []string {
	alerts := make([]string, 0, 5)

	if score < lowScoreThreshold {
		alerts = append(alerts, alertLowScore)
	}

	if record.Sleep != nil &&
		(record.Sleep.Quality == models.SleepPoor || record.Sleep.Quality == models.SleepTerrible) {
		alerts = append(alerts, alertPoorSleep)
	}

	if occurredCrises(record.Crisis) >= 2 {
		alerts = append(alerts, alertMultipleCrises)
	}

	if hasIntenseCrisis(record.Crisis) {
		alerts = append(alerts, alertIntenseCrisis)
	}

	if record.Medication != nil {
		missed := 0
		for _, med := range record.Medication.Medications {
			if !med.Taken {
				missed++
			}
		}
		if missed > 0 {
			alerts = append(alerts, fmt.Sprintf("%d medication dose(s) were missed.", missed))
		}
	}

	return alerts
}

func moodValues(mood *models.MoodData) []string {
	if mood == nil {
		return nil
	}
	values := make([]string, 0, 3)
	for _, v := range []string{mood.Morning, mood.Afternoon, mood.Evening} {
		if v != "" {
			values = append(values, v)
		}
	}
	return values
}

// moodPositivity returns the fraction of logged mood slots in the positive
// set, or 0 when nothing was logged.
func moodPositivity(mood *models.MoodData) float64 {
	values := moodValues(mood)
	if len(values) == 0 {
		return 0
	}
	positive := 0
	for _, v := range values {
		if _, ok := positiveMoods[v]; ok {
			positive++
		}
	}
	return float64(positive) / float64(len(values))
}

// occurredCrises counts periods with an occurred crisis; each period counts
// at most once regardless of intensity.
func occurredCrises(crisis *models.CrisisData) int {
	if crisis == nil {
		return 0
	}
	count := 0
	for _, period := range []*models.CrisisPeriod{crisis.Morning, crisis.Afternoon, crisis.Evening} {
		if period != nil && period.Occurred {
			count++
		}
	}
	return count
}

func hasIntenseCrisis(crisis *models.CrisisData) bool {
	if crisis == nil {
		return false
	}
	for _, period := range []*models.CrisisPeriod{crisis.Morning, crisis.Afternoon, crisis.Evening} {
		if period != nil && period.Occurred && period.Intensity >= highIntensityThreshold {
			return true
		}
	}
	return false
}

func activityParticipation(activity *models.ActivityData) (withData, participating int) {
	if activity == nil {
		return 0, 0
	}
	for _, period := range []*models.ActivityPeriod{activity.Morning, activity.Afternoon, activity.Evening} {
		if period == nil {
			continue
		}
		withData++
		if len(period.Activities) > 0 {
			participating++
		}
	}
	return withData, participating
}
