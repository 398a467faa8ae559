package main

// TestingBucket is the single testing-requirement classification per bug.
type TestingBucket string

const (
	BucketAutomated      TestingBucket = "automated_tests_could_catch"
	BucketDeviceMatrix   TestingBucket = "device_matrix_testing_needed"
	BucketManualWorkflow TestingBucket = "manual_workflow_testing_needed"
	BucketEnvironment    TestingBucket = "environment_dependent_hard_to_test"
)

// bucketOrder is the report order, least restrictive first.
var bucketOrder = []TestingBucket{
	BucketAutomated,
	BucketDeviceMatrix,
	BucketManualWorkflow,
	BucketEnvironment,
}

// bucketRank orders buckets by restrictiveness. When a bug's categories map
// to several buckets, the highest rank wins so the bug is counted once.
var bucketRank = map[TestingBucket]int{
	BucketAutomated:      1,
	BucketDeviceMatrix:   2,
	BucketManualWorkflow: 3,
	BucketEnvironment:    4,
}

// categoryBucket statically maps every recognized category to one bucket.
// CategoryOther is deliberately absent: uncategorized bugs fall to the
// configured default.
var categoryBucket = map[string]TestingBucket{
	CategoryBluetoothPairing:     BucketDeviceMatrix,
	CategoryTranslationLanguage:  BucketManualWorkflow,
	CategoryStreamingMedia:       BucketEnvironment,
	CategoryPermissionsAndroid:   BucketDeviceMatrix,
	CategoryIOSSpecific:          BucketDeviceMatrix,
	CategoryAppCrashes:           BucketAutomated,
	CategoryUINavigation:         BucketAutomated,
	CategoryCloudSync:            BucketAutomated,
	CategoryHardwareIntegration:  BucketEnvironment,
	CategoryPerformance:          BucketEnvironment,
	CategoryWifiConnectivity:     BucketEnvironment,
	CategoryDeveloperConsole:     BucketAutomated,
	CategoryErrorHandling:        BucketAutomated,
	CategoryAudioProcessing:      BucketDeviceMatrix,
	CategoryGalleryMedia:         BucketManualWorkflow,
	CategoryStateSynchronization: BucketAutomated,
	CategoryBLECommunication:     BucketDeviceMatrix,
	CategoryCameraFunctionality:  BucketDeviceMatrix,
}

// TestingBucketFor reduces a bug's category set to its single testing bucket:
// the most restrictive bucket among the recognized categories, or fallback
// when the bug has no recognized category (its only tag is "other").
func TestingBucketFor(categories []string, fallback TestingBucket) TestingBucket {
	best := TestingBucket("")
	for _, category := range categories {
		bucket, ok := categoryBucket[category]
		if !ok {
			continue
		}
		if best == "" || bucketRank[bucket] > bucketRank[best] {
			best = bucket
		}
	}
	if best == "" {
		return fallback
	}
	return best
}

// IsTestingBucket reports whether name is one of the four bucket values.
func IsTestingBucket(name string) bool {
	_, ok := bucketRank[TestingBucket(name)]
	return ok
}

// TestingBucketNames returns the bucket names in report order.
func TestingBucketNames() []string {
	names := make([]string, 0, len(bucketOrder))
	for _, b := range bucketOrder {
		names = append(names, string(b))
	}
	return names
}
