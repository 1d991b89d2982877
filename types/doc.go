// Copyright (c) FlowGraph Authors.
// Licensed under the MIT License.

/*
Package types 提供 FlowGraph 引擎的全局共享类型定义。

# 概述

types 是引擎最底层的公共包，不依赖任何内部包，为 graph、flow 等上层
模块提供统一的错误契约。所有跨包共享的错误码均定义于此，以避免循环
依赖。

# 核心接口与类型

  - Error / ErrorCode — 结构化错误体系，含错误码、标签与归因路径集
  - ErrConfiguration  — 调用方误用（空源集、未知标签、标签指向错误节点类型）
  - ErrStructural     — 图装配失败（标签冲突、身份冲突、引入环）
  - ErrComputation    — 节点处理器执行失败，附带标签根路径集与原始错误
*/
package types
