package domain

// Status is the weekly progress snapshot returned by the status endpoint.
type Status struct {
	WorkoutsCompletedThisWeek int                `json:"workouts_completed_this_week"`
	MaxWorkoutsPerWeek        int                `json:"max_workouts_per_week"`
	FatigueScores             map[string]float64 `json:"fatigue_scores"`
	FatigueThreshold          float64            `json:"fatigue_threshold"`
	SelectedPersona           string             `json:"selected_persona"`
}

// MaxFatigue returns the highest fatigue score across coaches, or 0.
func (s Status) MaxFatigue() float64 {
	var highest float64
	for _, v := range s.FatigueScores {
		if v > highest {
			highest = v
		}
	}
	return highest
}

// FatigueLabel buckets the max fatigue percentage for display.
func (s Status) FatigueLabel() string {
	pct := int(s.MaxFatigue()*100 + 0.5)
	switch {
	case pct < 30:
		return "Fresh"
	case pct < 60:
		return "Moderate"
	default:
		return "High"
	}
}

// Profile is the subset of the user profile the client reads.
type Profile struct {
	IsOnboarded        bool     `json:"is_onboarded"`
	SubscribedPersonas []string `json:"subscribed_personas"`
}

// Intake is the final submission of the onboarding questionnaire.
type Intake struct {
	HeightCm     float64 `json:"height_cm"`
	WeightKg     float64 `json:"weight_kg"`
	FitnessLevel string  `json:"fitness_level"`
	AboutMe      string  `json:"about_me"`
}

// IntakeResult carries the personas the service suggests after intake.
type IntakeResult struct {
	RecommendedPersonas []string `json:"recommended_personas,omitempty"`
	SubscribedPersonas  []string `json:"subscribed_personas,omitempty"`
}

// PersonasToSubscribe picks the subscribed list, then the recommended list,
// then falls back to the strength coach.
func (r IntakeResult) PersonasToSubscribe() []string {
	if len(r.SubscribedPersonas) > 0 {
		return r.SubscribedPersonas
	}
	if len(r.RecommendedPersonas) > 0 {
		return r.RecommendedPersonas
	}
	return []string{"iron"}
}
