// Package paddleocr runs the external PaddleOCR helper as a long-lived
// subprocess and adapts its line-delimited JSON protocol to the ocr.Engine
// interface.
package paddleocr
