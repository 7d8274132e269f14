package cwa

import (
	"strings"

	"github.com/dileep-u-k/quakebot/internal/quake"
)

func parseSignificant(payload quake.Object) []quake.Record {
	records := quake.LookupObject(payload, recordsKeys)
	quakes := quake.LookupList(records, earthquakesKeys)

	out := make([]quake.Record, 0, len(quakes))
	for _, item := range quakes {
		q, ok := item.(map[string]any)
		if !ok {
			continue
		}
		info := quake.LookupObject(q, quakeInfoKeys)
		epi := quake.LookupObject(info, epicenterKeys)
		mag := quake.LookupObject(info, magnitudeObjKeys)

		r := quake.Record{
			ID:        quake.LookupString(q, quakeNoKeys),
			Latitude:  quake.Float(lookup(epi, latitudeKeys)),
			Longitude: quake.Float(lookup(epi, longitudeKeys)),
			Location:  quake.LookupString(epi, locationKeys),
			ReportURL: quake.LookupString(q, reportURLKeys),
			ImageURL:  quake.LookupString(q, reportImgKeys),
		}
		if t, ok := quake.ParseTime(quake.LookupString(info, originTimeKeys)); ok {
			r.OriginTime = t
		}
		if v, ok := quake.ParseFloat(lookup(info, depthKeys)); ok {
			r.Depth = v
		}
		if v, ok := quake.ParseFloat(lookup(mag, magnitudeKeys)); ok {
			r.Magnitude = v
		}
		out = append(out, r)
	}
	return out
}

func parseAlarms(payload quake.Object) []quake.Alarm {
	items := quake.LookupList(payload, alarmDataKeys)

	out := make([]quake.Alarm, 0, len(items))
	for _, item := range items {
		it, ok := item.(map[string]any)
		if !ok {
			continue
		}
		a := quake.Alarm{
			Record: quake.Record{
				Latitude:  quake.Float(lookup(it, latitudeKeys)),
				Longitude: quake.Float(lookup(it, longitudeKeys)),
			},
			Identifier: quake.LookupString(it, alarmIdentifierKeys),
			MsgType:    quake.LookupString(it, alarmMsgTypeKeys),
			MsgNo:      quake.LookupString(it, alarmMsgNoKeys),
		}
		a.ID = a.Identifier
		if t, ok := quake.ParseTime(quake.LookupString(it, originTimeKeys)); ok {
			a.OriginTime = t
		}
		if v, ok := quake.ParseFloat(lookup(it, magnitudeKeys)); ok {
			a.Magnitude = v
		}
		if v, ok := quake.ParseFloat(lookup(it, depthKeys)); ok {
			a.Depth = v
		}
		for _, area := range quake.LookupList(it, alarmAreasKeys) {
			if s, ok := area.(string); ok && s != "" {
				a.Areas = append(a.Areas, s)
			}
		}
		a.Location = strings.Join(a.Areas, ", ")
		out = append(out, a)
	}
	return out
}

func lookup(obj quake.Object, keys []string) any {
	v, _ := quake.Lookup(obj, keys)
	return v
}
