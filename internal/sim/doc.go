// Package sim simulates fantasy seasons: a round-robin regular season,
// win-ranked standings and a seeded single-elimination playoff, repeated over
// many trials to count how often each playoff bracket occurs.
package sim
