package builtins

import (
	"time"

	"fplc/pkg/runtime"
)

const timeLayout = "2006-01-02 15:04:05.000000"

func registerTime(r *Registry) {
	r.register("SLEEP", 1, 1, biSleep)
	r.register("TIMESTAMP", 0, 1, biTimestamp)
	r.register("TIME", 1, 1, biTime)
	r.register("TIMEZONE", 2, 2, biTimezone)
	r.register("TIMEZONES", 0, 0, biTimezones)
}

func biSleep(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	secs, ok := toFloat64(args[0])
	if !ok {
		return nil, &TypeError{Msg: "SLEEP expects a numeric argument"}
	}
	if secs > 0 {
		time.Sleep(time.Duration(secs * float64(time.Second)))
	}
	return runtime.Null{}, nil
}

func biTimestamp(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	if len(args) == 0 {
		return runtime.Float(float64(time.Now().UnixNano()) / 1e9), nil
	}
	s, err := asString(args[0], "TIMESTAMP")
	if err != nil {
		return nil, err
	}
	t, perr := time.ParseInLocation(timeLayout, s, time.Local)
	if perr != nil {
		return nil, &DomainError{Msg: "TIMESTAMP: cannot parse " + s}
	}
	return runtime.Float(float64(t.UnixNano()) / 1e9), nil
}

func biTime(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	secs, ok := toFloat64(args[0])
	if !ok {
		return nil, &TypeError{Msg: "TIME expects a numeric timestamp"}
	}
	t := unixToTime(secs, time.Local)
	return runtime.String(t.Format(timeLayout)), nil
}

func biTimezone(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	secs, ok := toFloat64(args[0])
	if !ok {
		return nil, &TypeError{Msg: "TIMEZONE expects a numeric timestamp"}
	}
	name, err := asString(args[1], "TIMEZONE")
	if err != nil {
		return nil, err
	}
	loc, lerr := time.LoadLocation(name)
	if lerr != nil {
		return nil, &DomainError{Msg: "TIMEZONE: unknown zone " + name}
	}
	t := unixToTime(secs, loc)
	return runtime.String(t.Format(timeLayout)), nil
}

func unixToTime(secs float64, loc *time.Location) time.Time {
	whole := int64(secs)
	frac := secs - float64(whole)
	return time.Unix(whole, int64(frac*1e9)).In(loc)
}

// commonTimezones is a representative slice of IANA zone names; the Go
// standard library has no API to enumerate the system tzdata, so TIMEZONES
// returns this fixed, practically-useful set (see DESIGN.md).
var commonTimezones = []string{
	"UTC", "America/New_York", "America/Chicago", "America/Denver",
	"America/Los_Angeles", "America/Sao_Paulo", "Europe/London",
	"Europe/Paris", "Europe/Berlin", "Europe/Moscow", "Africa/Cairo",
	"Asia/Jerusalem", "Asia/Dubai", "Asia/Kolkata", "Asia/Shanghai",
	"Asia/Tokyo", "Asia/Seoul", "Australia/Sydney", "Pacific/Auckland",
}

func biTimezones(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	elems := make([]runtime.Value, len(commonTimezones))
	for i, z := range commonTimezones {
		elems[i] = runtime.String(z)
	}
	return runtime.NewList(elems), nil
}
