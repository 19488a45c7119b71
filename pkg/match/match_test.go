// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/jetmigrate/pkg/mapping"
)

func newMatcher(t *testing.T) *Matcher {
	t.Helper()
	tables, err := mapping.Load(context.Background())
	require.NoError(t, err)
	return New(tables)
}

func TestMatcher_MatchLine(t *testing.T) {
	m := newMatcher(t)

	tests := []struct {
		name         string
		line         string
		want         string
		wantMatched  bool
		wantWildcard bool
	}{
		{
			name:        "xml_close_tag",
			line:        "</android.support.constraint.ConstraintLayout>",
			want:        "</androidx.constraintlayout.widget.ConstraintLayout>",
			wantMatched: true,
		},
		{
			name:        "kotlin_annotation",
			line:        "        @set:android.support.annotation.VisibleForTesting",
			want:        "        @set:androidx.annotation.VisibleForTesting",
			wantMatched: true,
		},
		{
			name:        "kdoc_link",
			line:        "* uses [android.arch.lifecycle.ViewModel] to do stuff.",
			want:        "* uses [androidx.lifecycle.ViewModel] to do stuff.",
			wantMatched: true,
		},
		{
			name:        "proguard_keep",
			line:        "-keep public class * extends android.support.v4.app.Fragment",
			want:        "-keep public class * extends androidx.fragment.app.Fragment",
			wantMatched: true,
		},
		{
			name:        "java_import",
			line:        "import android.support.animation.Force;",
			want:        "import androidx.dynamicanimation.animation.Force;",
			wantMatched: true,
		},
		{
			name:        "kotlin_field",
			line:        "val page: android.arch.paging.PageResult? = null",
			want:        "val page: androidx.paging.PageResult? = null",
			wantMatched: true,
		},
		{
			name:        "function_param",
			line:        "public void (android.databinding.Observable obs) {",
			want:        "public void (androidx.databinding.Observable obs) {",
			wantMatched: true,
		},
		{
			name:        "longest_pattern_wins",
			line:        "import android.support.v7.widget.ToolbarWidgetWrapper",
			want:        "import androidx.appcompat.widget.ToolbarWidgetWrapper",
			wantMatched: true,
		},
		{
			name:        "only_first_occurrence",
			line:        "(android.support.v4.app.Fragment a, android.support.v4.app.Fragment b)",
			want:        "(androidx.fragment.app.Fragment a, android.support.v4.app.Fragment b)",
			wantMatched: true,
		},
		{
			name: "too_short",
			line: "}",
			want: "}",
		},
		{
			name:         "java_star_import",
			line:         "import android.support.annotation.*",
			want:         "import android.support.annotation.*",
			wantWildcard: true,
		},
		{
			name:         "proguard_glob",
			line:         "-dontwarn android.support.design.**",
			want:         "-dontwarn android.support.design.**",
			wantWildcard: true,
		},
		{
			name: "substring_of_longer_package",
			line: "import com.example.android.support.v4.app.Fragment;",
			want: "import com.example.android.support.v4.app.Fragment;",
		},
		{
			name: "already_migrated",
			line: "import androidx.fragment.app.Fragment;",
			want: "import androidx.fragment.app.Fragment;",
		},
		{
			name: "admitted_but_unknown_class",
			line: "import android.support.v4.media.session.MediaSessionCompat;",
			want: "import android.support.v4.media.session.MediaSessionCompat;",
		},
		{
			name: "star_without_namespace_is_ignored",
			line: "import com.example.*;",
			want: "import com.example.*;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.MatchLine(tt.line)
			assert.Equal(t, tt.want, got.Text)
			assert.Equal(t, tt.wantMatched, got.Matched, "matched")
			assert.Equal(t, tt.wantWildcard, got.Wildcard, "wildcard")
			assert.Equal(t, tt.wantMatched, got.Mapping != nil, "mapping")
		})
	}
}

func TestMatcher_MatchLineIsIdempotent(t *testing.T) {
	m := newMatcher(t)

	for _, line := range []string{
		"import android.support.v4.app.Fragment;",
		"<android.support.design.widget.CoordinatorLayout",
		"@android.databinding.BindingAdapter(\"text\")",
		"import android.arch.persistence.room.RoomDatabase",
	} {
		first := m.MatchLine(line)
		require.True(t, first.Matched, line)

		second := m.MatchLine(first.Text)
		assert.False(t, second.Matched, "rewritten line %q should not match again", first.Text)
		assert.Equal(t, first.Text, second.Text)
	}
}

func TestMatcher_MatchArtifact(t *testing.T) {
	m := newMatcher(t)

	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "double_quotes",
			line: `    implemenation "com.android.support:car:28.0.0"`,
			want: "androidx.car:car:1.0.0-alpha5",
		},
		{
			name: "single_quotes_with_variable",
			line: "    implemenation 'com.android.support:car:$version'",
			want: "androidx.car:car:1.0.0-alpha5",
		},
		{
			name: "longer_artifact_wins",
			line: "    implementation 'com.android.support:cardview-v7:28.0.0'",
			want: "androidx.cardview:cardview:1.0.0",
		},
		{
			name: "arch_artifact",
			line: `    kapt "android.arch.persistence.room:compiler:1.1.1"`,
			want: "androidx.room:room-compiler:2.0.0",
		},
		{
			name: "false_positive",
			line: `val LIB = "com.example.android.support:lib:$VERSION"`,
		},
		{
			name: "unquoted",
			line: "com.android.support:support-compat:28.0.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.MatchArtifact(tt.line)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Replacement)
		})
	}
}

func TestIsWildcard(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"import android.arch.persistence.*;", true},
		{"import android.arch.persistence.*", true},
		{"-dontwarn android.support.design.**", true},
		{"-keep public class * extends android.support.v4.app.Fragment", false},
		{"): ArrayList<*>", false},
		{"    * uses [android.support.v4.app.Fragment]", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWildcard(tt.line))
		})
	}
}

func TestArtifactCandidate(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"top_level_gradle", "build.gradle", true},
		{"top_level_kts", "settings.gradle.kts", true},
		{"module_build_file", "app/build.gradle", true},
		{"buildsrc_deep", "buildSrc/src/main/kotlin/Deps.kt", true},
		{"deep_source", "app/src/main/java/Foo.java", false},
		{"module_manifest", "app/AndroidManifest.xml", false},
		{"module_proguard", "app/proguard-rules.pro", false},
		{"buildsrc_xml", "buildSrc/src/main/res/values.xml", false},
		{"no_extension", "Makefile", false},
		{"dot_relative", "./app/build.gradle", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ArtifactCandidate(tt.path, DefaultBuildLogicDirs))
		})
	}
}
