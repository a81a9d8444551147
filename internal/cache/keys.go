package cache

import "strings"

const (
	GlobalKeyPrefix = "exammixer"

	serviceExam = "exam"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// PackageKey is the key of a rendered zip package for a generation run.
func PackageKey(runID string) string {
	return GenerateCacheKey(serviceExam, "package", runID)
}

// BankKey is the key of a cached question bank.
func BankKey(bankID string) string {
	return GenerateCacheKey(serviceExam, "bank", bankID)
}
