/*
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package seapool

import (
	"bufio"
	"errors"
	"os"
)

// sink is the output file of a Run. A temporary sink is removed on Close.
type sink struct {
	f    *os.File
	w    *bufio.Writer
	temp bool
}

func openSink(name string) (*sink, error) {
	var f *os.File
	var err error
	if name != "" {
		f, err = os.Create(name)
	} else {
		f, err = os.CreateTemp("", "seapool-*.c")
	}
	if err != nil {
		return nil, err
	}
	return &sink{f: f, w: bufio.NewWriter(f), temp: name == ""}, nil
}

func (s *sink) Write(p []byte) (int, error) { return s.w.Write(p) }

func (s *sink) Name() string { return s.f.Name() }

func (s *sink) Close() error {
	err := s.w.Flush()
	err = errors.Join(err, s.f.Close())
	if s.temp {
		err = errors.Join(err, os.Remove(s.f.Name()))
	}
	return err
}
