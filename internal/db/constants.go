package db

// sqlTimeFormat is the layout timestamps are stored in. It matches the
// output of SQLite's datetime() so stored values compare with it directly.
const sqlTimeFormat = "2006-01-02 15:04:05"

// sqlHourFormat buckets timestamps by hour.
const sqlHourFormat = "%Y-%m-%d %H:00:00"
