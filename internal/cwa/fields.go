package cwa

// Candidate key names per logical field. CWA payloads mix PascalCase,
// camelCase and older aliases across endpoints and API revisions; the first
// key present wins, so adding a new spelling is a one-line change here.
var (
	recordsKeys     = []string{"records", "Records"}
	earthquakesKeys = []string{"Earthquake", "earthquake", "Earthquakes"}

	quakeNoKeys    = []string{"EarthquakeNo", "earthquakeNo"}
	reportURLKeys  = []string{"Web", "ReportURL", "web", "reportURL"}
	reportImgKeys  = []string{"ReportImageURI", "reportImageURI", "ShakemapImageURI"}
	quakeInfoKeys  = []string{"EarthquakeInfo", "earthquakeInfo"}
	originTimeKeys = []string{"OriginTime", "originTime"}

	epicenterKeys = []string{"Epicenter", "epicenter"}
	latitudeKeys  = []string{"EpicenterLatitude", "epicenterLatitude", "EpicenterLat", "epicenterLat"}
	longitudeKeys = []string{"EpicenterLongitude", "epicenterLongitude", "EpicenterLon", "epicenterLon"}
	locationKeys  = []string{"Location", "location"}

	magnitudeObjKeys = []string{"Magnitude", "magnitude", "EarthquakeMagnitude"}
	magnitudeKeys    = []string{"MagnitudeValue", "magnitudeValue", "Value", "value"}
	depthKeys        = []string{"FocalDepth", "depth", "Depth"}

	alarmDataKeys       = []string{"data", "Data"}
	alarmIdentifierKeys = []string{"identifier", "Identifier"}
	alarmMsgTypeKeys    = []string{"msgType", "MsgType"}
	alarmMsgNoKeys      = []string{"msgNo", "MsgNo"}
	alarmAreasKeys      = []string{"locationDesc", "LocationDesc"}
)
