package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCourse(t *testing.T) {
	cases := map[string]Course{
		"Zwergel":           CourseZwergelSki,
		"Zwergel Snowboard": CourseZwergelSnowboard,
		"Ski":               CourseSki,
		"Snowboard":         CourseSnowboard,
	}
	for raw, want := range cases {
		got, err := ParseCourse(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}
}

func TestParseCourseUnknownToken(t *testing.T) {
	_, err := ParseCourse("Langlauf")
	var unknown UnknownCourseError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Langlauf", unknown.Token)
	assert.Contains(t, err.Error(), "Langlauf")
}

func TestCourseZwergelAndLabels(t *testing.T) {
	assert.True(t, CourseZwergelSki.IsZwergel())
	assert.True(t, CourseZwergelSnowboard.IsZwergel())
	assert.False(t, CourseSki.IsZwergel())
	assert.False(t, CourseSnowboard.IsZwergel())

	assert.Equal(t, "ski", CourseZwergelSki.Label())
	assert.Equal(t, "snowboard", CourseZwergelSnowboard.Label())
	assert.Equal(t, "ski", CourseSki.Label())
	assert.Equal(t, "snowboard", CourseSnowboard.Label())
}
