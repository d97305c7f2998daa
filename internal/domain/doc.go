// Package domain implements the snow-day severity scoring and probability
// mapping engine over National Weather Service (NWS) hourly forecast data.
//
// # Data Source
//
// Hourly periods come from the api.weather.gov gridpoint hourly forecast
// (resolved via /points/{lat},{lon} → properties.forecastHourly), active
// alerts from /alerts/active?point={lat},{lon}. Both are fetched by the
// adapter layer; the engine only consumes already-parsed periods and alerts
// and is fully deterministic for a fixed input.
//
// # NWS Data Conventions
//
// Quantitative fields (precipitation, probability, wind chill, visibility)
// arrive as {unitCode, value} pairs where value may be null:
//
//	quantitativePrecipitation: wmoUnit:mm  → converted to inches (÷25.4)
//	windChill:                 wmoUnit:degC → converted to °F
//	visibility:                wmoUnit:m   → converted to miles; some feeds
//	                           send a plain string ("10 miles") instead
//
// Wind speed and gust are display strings ("10 mph", "15 to 20 mph"); the
// leading number is extracted. Temperature is a plain number with a one-letter
// unit ("F"/"C"); a missing temperature defaults to 32°F so arithmetic never
// sees a hole.
//
// # Scoring Model
//
// Each candidate day (next four weekdays only) is scored along independent
// hazard factors, then summed into a base severity score:
//
//	early-morning timing   snow depth falling in the 5–9am commute window,
//	                       weighted by the district timing profile
//	total accumulation     day total snow inches vs the district threshold
//	refreeze risk          snow ending by 4am with a cold 4–10am commute
//	road conditions        daytime cold plus low visibility during snow
//	drifting risk          >25 mph wind during or shortly after snowfall
//	hazardous precip       freezing rain / ice storm / sleet / drizzle
//	wind-chill danger      dangerous bus-hour chill on a snow/ice day
//	extreme cold           dangerous bus-hour chill on a dry day (cap 25)
//	alerts                 highest warning overlapping the 3am–10am
//	                       decision window sets a probability floor
//
// Snow depth is derived from liquid-equivalent QPF using a snow-to-liquid
// ratio selected by each period's own temperature (colder air → fluffier
// snow → higher ratio), not a daily average.
//
// When snow and dangerous cold coincide, the snow subtotal receives a
// proportional boost (cold compounds snow: buses that would run through
// 3 inches will not run through 3 inches at −20°F wind chill).
//
// The base score maps to a probability and confidence through fixed bands,
// with active warnings acting as floors and confidence decaying for
// forecasts more than 48/72 hours out. Probability is clamped to [0,99],
// confidence to [0.5,0.95].
package domain
