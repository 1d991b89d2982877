// Copyright (c) FlowGraph Authors.
// Licensed under the MIT License.

/*
Package graph 提供 FlowGraph 的节点模型与不可变图结构。

# 概述

graph 包定义数据流图的两类节点（Input / Compute）、基于 arena 的不可变
图注册表（含递归插入、按身份去重与环检测）、拓扑分层器以及声明式
YAML / JSON 图定义。

# 核心接口与类型

  - Node / Kind / Identity — 节点模型（Input 根节点 / Compute 派生节点）
  - Handler               — 纯函数处理器 (ctx, prev, sources) -> (value, error)
  - Factory / IDGenerator — 可注入的身份生成（UUID 默认，顺序生成器供测试）
  - Graph                 — 不可变图：Add 返回新图值，原图保持可用
  - Levels                — 拓扑分层：按到输入前沿的最大深度分层调度
  - Definition            — 声明式图定义（YAML / JSON 导入导出与校验）
  - HandlerRegistry       — 处理器名称注册表，供 Definition.Build 解析

# 主要能力

  - 递归插入：添加带标签节点时自动插入未登记的源节点（隐藏节点）
  - 环检测：每次 Add 从新节点做一次 DFS 路径集检查，装配期一次付清
  - 身份去重：共享源按身份去重；身份冲突（不同节点值）即装配失败
  - 分层确定性：同图同前沿多次分层，每个节点落在相同层级
*/
package graph
