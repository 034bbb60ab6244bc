// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

//go:build debug

package aterm

// With the debug build tag we check the role of link fields on every access,
// scan free lists for double frees and log resizes and block allocations.

const _DEBUG bool = true
const _LOGLEVEL int = 1
