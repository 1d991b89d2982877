// Copyright (c) FlowGraph Authors.
// Licensed under the MIT License.

/*
Package flow 提供 FlowGraph 的调度编译、执行策略与会话上下文。

# 概述

flow 包消费 graph 包的不可变图，提供可插拔的执行策略（顺序 / 层级并行）、
按输入标签集记忆化的编译缓存、节点失败时的标签根路径归因，以及用户
面向的 Context 会话对象。

# 核心接口与类型

  - Processor  — 执行策略接口：Compile(图, 输入身份) 与 Execute(调度, 值, 批次)
  - Sequential — 顺序处理器：调度拍平为单序列，逐节点折叠更新
  - Parallel   — 并行处理器：逐层 errgroup 扇出，屏障汇合后推进下一层
  - Schedule   — 编译产物：有序层级的节点身份序列（不含输入层）
  - Context    — 会话对象：图 + 处理器 + 累积值 + 编译缓存，重绑定式不可变
  - Values     — 计算节点身份到最新值的映射（输入节点值从不落存）

# 主要能力

  - 全有或全无：失败调用不提交任何部分结果，旧 Context 始终可用
  - 失败归因：ComputationError 携带全部标签根路径与原始错误
  - 缓存按值延展：同谱系的多个 Context 各持独立缓存，互不干扰
  - 快照分支：任意历史 Context 可独立继续处理，形成分叉的计算谱系
*/
package flow
