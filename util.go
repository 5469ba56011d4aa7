package sdk

// Float64Ptr is a convenience helper for optional float fields such as
// ChatOptions.Temperature and SpeakOptions.Speed.
func Float64Ptr(v float64) *float64 { return &v }

// BoolPtr is a convenience helper for optional boolean fields.
func BoolPtr(b bool) *bool { return &b }
