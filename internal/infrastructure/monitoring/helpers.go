package monitoring

import "strconv"

// StatusClass buckets an HTTP status code into "1xx".."5xx" so label
// cardinality stays bounded. Out-of-range codes report as "other".
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "other"
	}
	return strconv.Itoa(status/100) + "xx"
}
