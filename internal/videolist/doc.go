// Package videolist parses the input list of videos to transcribe. Lists are
// JSON arrays (the historical videos_list.json format) or YAML files whose
// entries are bare URL strings or {url, title} objects.
package videolist
