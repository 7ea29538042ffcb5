package utils

func StringPtr(s string) *string {
	return &s
}

func IntPtr(n int) *int {
	return &n
}

func Int64Ptr(n int64) *int64 {
	return &n
}
