// Package noaa implements queries to NOAA CO-OPS to retrieve tide data. Tide
// data is requested as a time series per station (see PredictionQuery). A
// successful hi/lo query returns a list of predictions with time, height, and
// whether it is high or low; an interval query returns evenly spaced samples
// with no tide type. All times are local to the station.
package noaa
