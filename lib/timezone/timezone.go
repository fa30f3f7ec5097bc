package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
}

// pin the clock to DC time regardless of where the job runs,
// otherwise "current filing year" and scrape dates drift when
// the box lands in another region
func Now() time.Time {
	return time.Now().In(Location)
}
