// Package domain models the Bloomington, IN crash records (Monroe County,
// 2003–2015) and the parsing rules for the source file.
//
// # Data Source
//
// The dataset is a single delimited text file with a header row and twelve
// columns, always in this order:
//
//	Master Record Number, Year, Month, Day, Weekend?, Hour, Collision Type,
//	Injury Type, Primary Factor, Reported Location, Latitude, Longitude
//
// The file is Latin-1 encoded (street names carry the odd accented byte), so
// readers must decode it before treating it as UTF-8. Header names vary
// between exports; only the column count and order are relied upon.
//
// # Field Conventions
//
//	Day:      day of week, 1–7. Blank → [Unknown].
//	Weekend?: "Weekday" or "Weekend". Blank → [WeekPartUnknown].
//	Hour:     military time, e.g. "1800" = 18:00. Blank → [Unknown].
//	Primary Factor: the recorded suspected cause. "<undefined>" means no reason
//	          was recorded, or a driver left the scene. Blank cells in any
//	          categorical column are folded into [UndefinedFactor].
//	Latitude/Longitude: decimal degrees. Either blank → Coordinate.Valid=false.
//	          A handful of rows carry 0,0, which shows up as a cluster of
//	          crashes roughly 100 units from the reference point.
//
// Year and Month are required. Any present-but-unparseable value aborts the
// load; there is no partial result.
//
// # Distance
//
// Distances are planar Euclidean norms in degrees from a reference point,
// [SampleGates] by default. See [Distance].
package domain
