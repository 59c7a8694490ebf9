package scoring

// CalculatePoints folds a stat bag into fantasy points. The weights are the
// platform-wide scoring formula; absent fields contribute nothing.
func CalculatePoints(s Stats) float64 {
	var total float64

	// Cricket
	if s.Runs != nil {
		total += float64(*s.Runs)
	}
	if s.Wickets != nil {
		total += float64(*s.Wickets) * 10
	}
	if s.Catches != nil {
		total += float64(*s.Catches) * 8
	}
	if s.Stumpings != nil {
		total += float64(*s.Stumpings) * 10
	}
	if s.RunOuts != nil {
		total += float64(*s.RunOuts) * 6
	}
	if s.Maidens != nil {
		total += float64(*s.Maidens) * 4
	}
	if s.Economy != nil && *s.Economy < 4.0 {
		total += 2
	}

	// Football
	if s.Goals != nil {
		total += float64(*s.Goals) * 6
	}
	if s.Assists != nil {
		total += float64(*s.Assists) * 3
	}
	if s.CleanSheets != nil {
		total += float64(*s.CleanSheets) * 4
	}
	if s.Saves != nil {
		total += float64(*s.Saves)
	}
	if s.YellowCards != nil {
		total -= float64(*s.YellowCards)
	}
	if s.RedCards != nil {
		total -= float64(*s.RedCards) * 3
	}

	// Basketball. Assists are shared with football, so both weights apply
	// when the field is set.
	if s.Points != nil {
		total += float64(*s.Points)
	}
	if s.Rebounds != nil {
		total += float64(*s.Rebounds) * 1.2
	}
	if s.Assists != nil {
		total += float64(*s.Assists) * 1.5
	}
	if s.Blocks != nil {
		total += float64(*s.Blocks) * 2
	}
	if s.Steals != nil {
		total += float64(*s.Steals) * 2
	}
	if s.Turnovers != nil {
		total -= float64(*s.Turnovers)
	}

	return total
}
