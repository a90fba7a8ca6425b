// Command subsnap extracts hardcoded subtitles from video files by sampling
// frames, recognizing on-screen text, and writing time-coded lrc or txt
// files.
package main
