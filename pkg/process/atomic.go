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

package process

import (
	"io/fs"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// 💾 replaceFile atomically swaps the contents of path for content.
//
// The temporary file is created next to the resolved target so the final
// rename never crosses a filesystem, and symlinks keep pointing at the
// rewritten file. Permission bits of the original are carried over.
func replaceFile(path string, content []byte) (err error) {
	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		return errors.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(realPath)
	if err != nil {
		return errors.Errorf("stat: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(realPath), "."+filepath.Base(realPath)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(content); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return errors.Errorf("syncing temp file: %w", err)
	}

	mode := info.Mode() & (fs.ModePerm | fs.ModeSetuid | fs.ModeSetgid | fs.ModeSticky)
	if err = tmp.Chmod(mode); err != nil {
		return errors.Errorf("setting permissions: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}

	if err = os.Rename(tmp.Name(), realPath); err != nil {
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}
