package cache

import "strconv"

// Keys are namespaced so user and booking records can share one bounded
// cache without colliding.

func UserKey(id int64) string {
	return "user:" + strconv.FormatInt(id, 10)
}

func BookingKey(id int64) string {
	return "booking:" + strconv.FormatInt(id, 10)
}
