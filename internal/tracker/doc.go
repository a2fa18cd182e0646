// Package tracker derives the views a learning tracker shows from its raw records:
// phase groupings, filtered course lists, month calendars, streaks and summary
// analytics, plus the course progress state machine and daily log preparation.
//
// Everything here is pure. Callers pass "today" explicitly so results are
// deterministic.
package tracker
