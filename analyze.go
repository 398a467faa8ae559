package main

// BugClassification is one bug with every derived tag attached.
type BugClassification struct {
	Issue      Issue
	Categories []string // non-empty; multi-label
	Platform   string
	Hardware   string
	Bucket     TestingBucket
}

// Analysis is the aggregate over the filtered bug population.
type Analysis struct {
	Repository     string
	TotalBugs      int
	OpenBugs       int
	ClosedBugs     int
	SkippedRecords int

	Bugs []BugClassification

	CategoryCounts map[string]int
	PlatformCounts map[string]int
	HardwareCounts map[string]int
	BucketCounts   map[TestingBucket]int
}

// AnalyzeBugs runs the full classification pipeline over already-filtered bug
// issues: multi-label categories, scalar platform and hardware tags, and the
// testing-bucket reduction. fallback is the bucket for bugs whose only
// category is "other".
func AnalyzeBugs(classifier *Classifier, bugs []Issue, fallback TestingBucket) *Analysis {
	a := &Analysis{
		TotalBugs:      len(bugs),
		CategoryCounts: make(map[string]int),
		PlatformCounts: make(map[string]int),
		HardwareCounts: make(map[string]int),
		BucketCounts:   make(map[TestingBucket]int),
	}

	for _, issue := range bugs {
		if issue.State == "open" {
			a.OpenBugs++
		} else {
			a.ClosedBugs++
		}

		bc := BugClassification{
			Issue:      issue,
			Categories: classifier.Categories(issue),
			Platform:   classifier.Platform(issue),
			Hardware:   classifier.Hardware(issue),
		}
		bc.Bucket = TestingBucketFor(bc.Categories, fallback)
		a.Bugs = append(a.Bugs, bc)

		for _, category := range bc.Categories {
			a.CategoryCounts[category]++
		}
		a.PlatformCounts[bc.Platform]++
		a.HardwareCounts[bc.Hardware]++
		a.BucketCounts[bc.Bucket]++
	}

	return a
}

// Percent returns n as a percentage of the bug total, guarding the empty
// population so a zero-bug snapshot reports 0% rather than dividing by zero.
func (a *Analysis) Percent(n int) float64 {
	if a.TotalBugs == 0 {
		return 0
	}
	return float64(n) / float64(a.TotalBugs) * 100
}

// OpenBugsByCategory returns up to limit open bugs per category, in the order
// the bugs were loaded.
func (a *Analysis) OpenBugsByCategory(category string, limit int) []Issue {
	var open []Issue
	for _, bc := range a.Bugs {
		if len(open) == limit {
			break
		}
		if bc.Issue.State != "open" {
			continue
		}
		for _, c := range bc.Categories {
			if c == category {
				open = append(open, bc.Issue)
				break
			}
		}
	}
	return open
}
