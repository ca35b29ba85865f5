// Package mcp implements the Model Context Protocol (MCP) server for the
// dictation segmenter.
//
// The server exposes two tools to MCP clients:
//   - segment_text: cut Chinese text into bounded dictation sentences
//   - build_lesson: turn a .txt file into a lesson (vocabulary + paragraphs)
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// # Tool: segment_text
//
//	Request:
//	{
//	  "name": "segment_text",
//	  "arguments": {
//	    "text": "书包。这是一个非常长的句子需要被拆分。",
//	    "max_len": 15,
//	    "min_len": 5
//	  }
//	}
//
//	Response:
//	{
//	  "count": 2,
//	  "sentences": [
//	    {"text": "书包。", "hanzi": 2},
//	    {"text": "这是一个非常长的句子需要被拆分。", "hanzi": 15}
//	  ]
//	}
//
// max_len and min_len are optional and default to the configured bounds. An
// explicit min_len of 0 is honoured. A max_len below the configured min_len
// without a min_len lowers min_len to half of max_len.
//
// # Tool: build_lesson
//
//	Request:
//	{
//	  "name": "build_lesson",
//	  "arguments": {"path": "/abs/path/lesson.txt"}
//	}
//
// The response is the lesson JSON: id, path, title, words and paragraphs.
//
// # Error Codes
//
//	-32602  Invalid params (missing text, bad bounds, min_len > max_len)
//	-32603  Internal error
//	-32001  No .txt document at the given path
package mcp
