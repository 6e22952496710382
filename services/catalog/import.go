package catalog

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
)

// ReadCourseCSV groups module rows into courses. The header must name at
// least course, title, week, day and videoUrl; description, thumbnail,
// syllabus and materials are optional. materials is a "|" separated list.
// Rows missing a course or title are skipped and counted.
func ReadCourseCSV(r io.Reader) ([]NewCourse, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, 0, err
	}
	if len(records) < 2 {
		return nil, 0, errors.New("CSV file is empty or has only headers")
	}

	headerIndex := make(map[string]int)
	for i, h := range records[0] {
		headerIndex[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"course", "title", "week", "day", "videoUrl"} {
		if _, ok := headerIndex[required]; !ok {
			return nil, 0, errors.New("CSV header is missing column " + required)
		}
	}

	var courses []NewCourse
	byTitle := make(map[string]int)
	skipped := 0

	for _, row := range records[1:] {
		title := getField(row, headerIndex, "course")
		moduleTitle := getField(row, headerIndex, "title")
		if title == "" || moduleTitle == "" {
			skipped++
			continue
		}

		idx, ok := byTitle[title]
		if !ok {
			courses = append(courses, NewCourse{Title: title})
			idx = len(courses) - 1
			byTitle[title] = idx
		}
		c := &courses[idx]
		// The first non-empty value wins for course level columns.
		if c.Description == "" {
			c.Description = getField(row, headerIndex, "description")
		}
		if c.Thumbnail == "" {
			c.Thumbnail = getField(row, headerIndex, "thumbnail")
		}
		if c.Syllabus == "" {
			c.Syllabus = getField(row, headerIndex, "syllabus")
		}

		var materials []string
		for _, m := range strings.Split(getField(row, headerIndex, "materials"), "|") {
			if m = strings.TrimSpace(m); m != "" {
				materials = append(materials, m)
			}
		}
		c.Modules = append(c.Modules, NewModule{
			Title:     moduleTitle,
			Week:      parseInt(getField(row, headerIndex, "week")),
			Day:       parseInt(getField(row, headerIndex, "day")),
			VideoURL:  getField(row, headerIndex, "videoUrl"),
			Materials: materials,
		})
	}
	return courses, skipped, nil
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func parseInt(s string) int {
	val, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return val
}
